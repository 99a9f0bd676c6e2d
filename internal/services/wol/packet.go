package wol

import (
	"fmt"

	"github.com/fgeck/wakegate/internal/mac"
	"github.com/mdlayher/wol"
)

const (
	// DefaultPort is the discard port conventionally used for Wake-on-LAN.
	DefaultPort = 9
	// DefaultBroadcastAddress is the IPv4 limited broadcast address.
	DefaultBroadcastAddress = "255.255.255.255"

	syncLen     = 6
	repetitions = 16
	// MagicPacketSize is 6 bytes of 0xFF plus 16 repetitions of the target.
	MagicPacketSize = syncLen + repetitions*mac.Len
)

// BuildMagicPacket returns the 102-byte magic packet for target:
// 6 bytes of 0xFF followed by target repeated 16 times. A new slice is
// returned on every call.
func BuildMagicPacket(target mac.Address) ([]byte, error) {
	p := &wol.MagicPacket{Target: target.HardwareAddr()}

	b, err := p.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to build magic packet: %w", err)
	}
	if len(b) != MagicPacketSize {
		return nil, fmt.Errorf("failed to build magic packet: got %d bytes, want %d", len(b), MagicPacketSize)
	}

	return b, nil
}

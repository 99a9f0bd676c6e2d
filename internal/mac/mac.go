// Package mac parses the hardware addresses accepted by the wake endpoint.
package mac

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Len is the number of bytes in an Ethernet hardware address.
const Len = 6

// ErrInvalidFormat is returned when a string does not hold exactly
// 12 hex digits once separators are removed.
var ErrInvalidFormat = errors.New("invalid MAC address format")

// Address is a 6-byte hardware address.
type Address [Len]byte

var separators = strings.NewReplacer(":", "", "-", "")

// Normalize parses raw into an Address. Any number of ':' and '-'
// separators is accepted, in any position, as is mixed-case hex
// ("AA:BB:CC:DD:EE:FF", "aa-bb-cc-dd-ee-ff", "aabbccddeeff").
func Normalize(raw string) (Address, error) {
	var a Address

	digits := strings.ToLower(separators.Replace(raw))
	if len(digits) != 2*Len {
		return a, fmt.Errorf("%w: %q has %d hex digits, want %d", ErrInvalidFormat, raw, len(digits), 2*Len)
	}

	if _, err := hex.Decode(a[:], []byte(digits)); err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, raw, err)
	}

	return a, nil
}

// String returns the lowercase colon-separated form, e.g. "aa:bb:cc:dd:ee:ff".
func (a Address) String() string {
	return a.HardwareAddr().String()
}

// HardwareAddr returns a copy of a as a net.HardwareAddr.
func (a Address) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, Len)
	copy(hw, a[:])
	return hw
}

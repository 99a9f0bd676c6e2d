//go:build unix

package wol

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// enableBroadcast sets SO_BROADCAST on the socket before it is bound.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	var opErr error
	if err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}); err != nil {
		return err
	}
	if opErr != nil {
		return fmt.Errorf("SO_BROADCAST: %w", opErr)
	}
	return nil
}

package wol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/fgeck/wakegate/internal/mac"
	"github.com/fgeck/wakegate/internal/metrics"
	"github.com/rs/zerolog"
)

// ErrTransmission matches every *TransmissionError through errors.Is.
var ErrTransmission = errors.New("magic packet transmission failed")

// TransmissionError reports a failed broadcast. Op is one of
// "resolve", "socket" or "send".
type TransmissionError struct {
	Op   string
	Addr string
	Err  error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrTransmission, e.Op, e.Addr, e.Err)
}

func (e *TransmissionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransmission.
func (e *TransmissionError) Is(target error) bool {
	return target == ErrTransmission
}

// SocketOpener opens a UDP socket able to send broadcast datagrams.
type SocketOpener interface {
	OpenBroadcast(ctx context.Context) (net.PacketConn, error)
}

// DefaultSocketOpener binds an ephemeral IPv4 UDP port with SO_BROADCAST set.
type DefaultSocketOpener struct{}

// OpenBroadcast opens the socket.
func (DefaultSocketOpener) OpenBroadcast(ctx context.Context) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: enableBroadcast}
	return lc.ListenPacket(ctx, "udp4", ":0")
}

// Broadcaster sends magic packets, one socket per call.
type Broadcaster struct {
	opener SocketOpener
	logger zerolog.Logger
}

// NewBroadcaster creates a Broadcaster using real sockets.
func NewBroadcaster(logger zerolog.Logger) *Broadcaster {
	return NewBroadcasterWithOpener(logger, DefaultSocketOpener{})
}

// NewBroadcasterWithOpener creates a Broadcaster with a custom socket opener (for testing).
func NewBroadcasterWithOpener(logger zerolog.Logger, opener SocketOpener) *Broadcaster {
	return &Broadcaster{
		opener: opener,
		logger: logger,
	}
}

// Send builds the magic packet for target and broadcasts it as a single
// datagram to broadcastAddr:port. The socket is closed before Send returns.
// Failures are returned as *TransmissionError and never retried.
func (b *Broadcaster) Send(ctx context.Context, target mac.Address, broadcastAddr string, port int) error {
	packet, err := BuildMagicPacket(target)
	if err != nil {
		return err
	}

	hostPort := net.JoinHostPort(broadcastAddr, strconv.Itoa(port))
	if port < 1 || port > 65535 {
		return b.fail(&TransmissionError{Op: "resolve", Addr: hostPort, Err: fmt.Errorf("port %d out of range", port)})
	}

	dst, err := net.ResolveUDPAddr("udp4", hostPort)
	if err != nil {
		return b.fail(&TransmissionError{Op: "resolve", Addr: hostPort, Err: err})
	}

	conn, err := b.opener.OpenBroadcast(ctx)
	if err != nil {
		return b.fail(&TransmissionError{Op: "socket", Addr: hostPort, Err: err})
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return b.fail(&TransmissionError{Op: "socket", Addr: hostPort, Err: err})
		}
	}

	n, err := conn.WriteTo(packet, dst)
	if err != nil {
		return b.fail(&TransmissionError{Op: "send", Addr: hostPort, Err: err})
	}
	if n != len(packet) {
		return b.fail(&TransmissionError{Op: "send", Addr: hostPort, Err: io.ErrShortWrite})
	}

	metrics.MagicPacketsSentTotal.Inc()
	b.logger.Info().
		Str("mac", target.String()).
		Str("broadcast", dst.String()).
		Int("bytes", n).
		Msg("magic packet sent")

	return nil
}

func (b *Broadcaster) fail(err *TransmissionError) error {
	metrics.TransmissionErrorsTotal.Inc()
	return err
}

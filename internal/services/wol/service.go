// Package wol provides Wake-on-LAN operations.
package wol

import (
	"context"

	"github.com/fgeck/wakegate/internal/mac"
	"github.com/fgeck/wakegate/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for Wake-on-LAN operations.
type Service interface {
	SendWakeOnLan(ctx context.Context, macString string) error
	Wake(ctx context.Context, target mac.Address) error
}

// Sender broadcasts a magic packet for a parsed address.
type Sender interface {
	Send(ctx context.Context, target mac.Address, broadcastAddr string, port int) error
}

// Impl implements the WOL Service interface.
type Impl struct {
	sender Sender
	cfg    models.WOLConfig
	logger zerolog.Logger
}

// New creates a new WOL service broadcasting to the target in cfg.
func New(logger zerolog.Logger, cfg models.WOLConfig) *Impl {
	return NewWithSender(logger, cfg, NewBroadcaster(logger))
}

// NewWithSender creates a new WOL service with a custom sender (for testing).
func NewWithSender(logger zerolog.Logger, cfg models.WOLConfig, sender Sender) *Impl {
	if cfg.BroadcastAddress == "" {
		cfg.BroadcastAddress = DefaultBroadcastAddress
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	return &Impl{
		sender: sender,
		cfg:    cfg,
		logger: logger,
	}
}

// SendWakeOnLan parses macString and broadcasts its magic packet.
// An unparseable address fails with mac.ErrInvalidFormat before any
// socket is opened.
func (s *Impl) SendWakeOnLan(ctx context.Context, macString string) error {
	target, err := mac.Normalize(macString)
	if err != nil {
		return err
	}
	return s.Wake(ctx, target)
}

// Wake broadcasts the magic packet for an already parsed address.
func (s *Impl) Wake(ctx context.Context, target mac.Address) error {
	s.logger.Debug().
		Str("mac", target.String()).
		Str("broadcast", s.cfg.BroadcastAddress).
		Int("port", s.cfg.Port).
		Msg("sending WOL packet")

	return s.sender.Send(ctx, target, s.cfg.BroadcastAddress, s.cfg.Port)
}

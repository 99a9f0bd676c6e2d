// Package trigger orchestrates an authenticated wake request.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fgeck/wakegate/internal/auth"
	"github.com/fgeck/wakegate/internal/mac"
	"github.com/fgeck/wakegate/internal/metrics"
	"github.com/fgeck/wakegate/internal/models"
	"github.com/fgeck/wakegate/internal/services/telegram"
	"github.com/fgeck/wakegate/internal/services/wol"
	"github.com/rs/zerolog"
)

// ErrMissingFields is returned when the password or the MAC is empty.
var ErrMissingFields = errors.New("missing fields (password, mac required)")

// Service defines the interface for wake requests.
type Service interface {
	Trigger(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error)
}

// Authorizer checks the shared secret.
type Authorizer interface {
	Check(password string) error
}

// Impl implements the trigger Service interface.
type Impl struct {
	authorizer  Authorizer
	wolSvc      wol.Service
	telegramSvc telegram.Service
	cfg         models.Config
	logger      zerolog.Logger
}

// New creates a new trigger service from the process configuration.
func New(logger zerolog.Logger, cfg models.Config) (*Impl, error) {
	authorizer, err := auth.New(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to set up authorization: %w", err)
	}

	return &Impl{
		authorizer:  authorizer,
		wolSvc:      wol.New(logger, cfg.WOL),
		telegramSvc: telegram.New(logger),
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// NewWithServices creates a new trigger service with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	cfg models.Config,
	authorizer Authorizer,
	wolSvc wol.Service,
	telegramSvc telegram.Service,
) *Impl {
	return &Impl{
		authorizer:  authorizer,
		wolSvc:      wolSvc,
		telegramSvc: telegramSvc,
		cfg:         cfg,
		logger:      logger,
	}
}

// Trigger checks req and broadcasts the magic packet for req.MAC.
// The returned error wraps ErrMissingFields, auth.ErrUnauthorized,
// mac.ErrInvalidFormat or wol.ErrTransmission.
func (s *Impl) Trigger(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
	start := time.Now()
	logger := s.logger.With().Str("remote", req.RemoteAddr).Logger()

	if req.Password == "" || req.MAC == "" {
		metrics.WakeRequestsTotal.WithLabelValues(metrics.OutcomeMissingFields).Inc()
		logger.Warn().Msg("wake request rejected: missing fields")
		return nil, ErrMissingFields
	}

	if err := s.authorizer.Check(req.Password); err != nil {
		metrics.WakeRequestsTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		logger.Warn().Msg("wake request rejected: unauthorized")
		return nil, err
	}

	target, err := mac.Normalize(req.MAC)
	if err != nil {
		metrics.WakeRequestsTotal.WithLabelValues(metrics.OutcomeInvalidMAC).Inc()
		logger.Warn().Err(err).Msg("wake request rejected: invalid MAC")
		return nil, err
	}

	if err := s.wolSvc.Wake(ctx, target); err != nil {
		metrics.WakeRequestsTotal.WithLabelValues(metrics.OutcomeSendFailed).Inc()
		logger.Error().Err(err).Str("mac", target.String()).Msg("failed to send WOL packet")
		return nil, err
	}

	result := &models.WakeResult{
		MAC:        target.String(),
		PacketSent: true,
		Duration:   time.Since(start),
	}

	metrics.WakeRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info().
		Str("mac", result.MAC).
		Dur("duration", result.Duration).
		Msg("WOL packet sent")

	if s.cfg.Telegram != nil {
		s.sendNotification(ctx, req, result)
	}

	return result, nil
}

func (s *Impl) sendNotification(ctx context.Context, req models.WakeRequest, result *models.WakeResult) {
	msg := models.TelegramMessage{
		MAC:              result.MAC,
		RemoteAddr:       req.RemoteAddr,
		BroadcastAddress: s.cfg.WOL.BroadcastAddress,
		Port:             s.cfg.WOL.Port,
		SentAt:           time.Now(),
	}

	res, err := s.telegramSvc.SendNotification(ctx, *s.cfg.Telegram, msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to send Telegram notification")
		return
	}
	if res.Error != nil {
		s.logger.Error().Err(res.Error).Msg("failed to send Telegram notification")
		return
	}

	s.logger.Info().Msg("Telegram notification sent")
}

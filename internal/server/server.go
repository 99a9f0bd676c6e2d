// Package server exposes the wake trigger over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fgeck/wakegate/internal/auth"
	"github.com/fgeck/wakegate/internal/mac"
	"github.com/fgeck/wakegate/internal/metrics"
	"github.com/fgeck/wakegate/internal/models"
	"github.com/fgeck/wakegate/internal/services/trigger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"
)

const maxBodyBytes = 1 << 20

// Server serves the wake endpoint.
type Server struct {
	triggerSvc trigger.Service
	cfg        models.ServerConfig
	logger     zerolog.Logger
}

// New creates a new HTTP server.
func New(logger zerolog.Logger, cfg models.ServerConfig, triggerSvc trigger.Service) *Server {
	return &Server{
		triggerSvc: triggerSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

// wakeRequest is the request body of POST /wake.
type wakeRequest struct {
	Password string `json:"password"`
	MAC      string `json:"mac"`
}

type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routes of the server wrapped in access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /wake", s.handleWake)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	var h http.Handler = mux
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request handled")
	})(h)
	h = hlog.RemoteAddrHandler("remote")(h)
	h = hlog.NewHandler(s.logger)(h)
	return h
}

func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	var body wakeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("malformed wake request body")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	_, err := s.triggerSvc.Trigger(r.Context(), models.WakeRequest{
		Password:   body.Password,
		MAC:        body.MAC,
		RemoteAddr: r.RemoteAddr,
	})
	if err != nil {
		code, msg := statusFor(err)
		writeJSON(w, code, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Status:  "success",
		Message: "WOL sent to " + body.MAC,
	})
}

// statusFor maps a trigger error to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, trigger.ErrMissingFields):
		return http.StatusBadRequest, "Missing fields (password, mac required)"
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, mac.ErrInvalidFormat):
		return http.StatusBadRequest, "Invalid MAC address format"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// httpServer bounds reading of both the headers and the body by the
// configured read timeout.
func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
	}
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.httpServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("address", ln.Addr().String()).Msg("wake server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Info().Msg("shutting down wake server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down HTTP server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

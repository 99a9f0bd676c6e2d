package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/wakegate/internal/server"
	"github.com/fgeck/wakegate/internal/services/trigger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wake endpoint",
	Long: `Serve the HTTP wake endpoint:
  POST /wake     broadcast a magic packet for an authorized request
  GET  /healthz  liveness probe
  GET  /metrics  Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Auth.UsesDefaultPassword() {
		log.Warn().Msg("no password configured, using the built-in default; set WOL_PASSWORD")
	}

	log.Info().
		Str("listen", cfg.Server.ListenAddress).
		Str("broadcast", cfg.WOL.BroadcastAddress).
		Int("port", cfg.WOL.Port).
		Bool("telegram", cfg.Telegram != nil).
		Msg("configuration loaded")

	triggerSvc, err := trigger.New(log.Logger, *cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up wake trigger")
		return err
	}

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := server.New(log.Logger, cfg.Server, triggerSvc)
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

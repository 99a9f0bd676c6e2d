package main

import (
	"context"
	"time"

	"github.com/fgeck/wakegate/internal/services/wol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	broadcastAddress string
	wolPort          int
)

var wakeCmd = &cobra.Command{
	Use:   "wake <mac>",
	Short: "Broadcast a magic packet once, without the HTTP endpoint",
	Long: `Broadcast a single Wake-on-LAN magic packet for the given MAC address.
Accepted formats: AA:BB:CC:DD:EE:FF, aa-bb-cc-dd-ee-ff, aabbccddeeff.`,
	Args: cobra.ExactArgs(1),
	RunE: runWake,
}

func init() {
	wakeCmd.Flags().StringVar(&broadcastAddress, "broadcast", "", "broadcast address (overrides config)")
	wakeCmd.Flags().IntVar(&wolPort, "port", 0, "UDP port (overrides config)")
}

func runWake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wolCfg := cfg.WOL
	if broadcastAddress != "" {
		wolCfg.BroadcastAddress = broadcastAddress
	}
	if wolPort != 0 {
		wolCfg.Port = wolPort
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wol.New(log.Logger, wolCfg).SendWakeOnLan(ctx, args[0]); err != nil {
		log.Error().Err(err).Str("mac", args[0]).Msg("failed to send WOL packet")
		return err
	}

	return nil
}

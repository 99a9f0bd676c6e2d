package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Validate the configuration file and environment without serving or sending anything.`,
	Args:  cobra.NoArgs,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	// Check if file exists
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			log.Error().Str("file", configFile).Msg("config file not found")
			return fmt.Errorf("config file not found: %s", configFile)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Server:")
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Read timeout: %s\n", cfg.Server.ReadTimeout)
	fmt.Printf("  Shutdown timeout: %s\n", cfg.Server.ShutdownTimeout)
	fmt.Println()
	fmt.Println("Wake-on-LAN:")
	fmt.Printf("  Broadcast address: %s\n", cfg.WOL.BroadcastAddress)
	fmt.Printf("  Port: %d\n", cfg.WOL.Port)
	fmt.Println()
	fmt.Println("Authentication:")
	switch {
	case cfg.Auth.PasswordHash != "":
		fmt.Println("  Password: (bcrypt hash)")
	case cfg.Auth.UsesDefaultPassword():
		fmt.Println("  Password: (built-in default, set WOL_PASSWORD)")
	default:
		fmt.Println("  Password: (configured)")
	}
	fmt.Println()
	fmt.Printf("Telegram: %v\n", cfg.Telegram != nil)
	if cfg.Telegram != nil {
		fmt.Printf("  Chat ID: %s\n", cfg.Telegram.ChatID)
		fmt.Printf("  Bot Token: (configured)\n")
	}

	return nil
}

// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/fgeck/wakegate/internal/models"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultListenAddress    = "0.0.0.0:5000"
	DefaultBroadcastAddress = "255.255.255.255"
	DefaultPort             = 9
	DefaultReadTimeout      = 10 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
)

// envNames lists the environment variables that override each expandable key.
var envNames = map[string][]string{
	"auth.password":      {"WAKEGATE_AUTH_PASSWORD", "WOL_PASSWORD"},
	"telegram.bot_token": {"WAKEGATE_TELEGRAM_BOT_TOKEN"},
	"telegram.chat_id":   {"WAKEGATE_TELEGRAM_CHAT_ID"},
}

// Parser handles configuration parsing. Every key can be overridden by an
// environment variable with the WAKEGATE_ prefix, e.g.
// WAKEGATE_WOL_BROADCAST_ADDRESS. The secret is also read from WOL_PASSWORD.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("wakegate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envNames {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return &Parser{v: v}
}

// Load builds the configuration from environment variables and defaults only.
func (p *Parser) Load() (*models.Config, error) {
	return p.parse()
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{}

	// Parse server settings.
	cfg.Server = models.ServerConfig{
		ListenAddress:   p.v.GetString("server.listen_address"),
		ReadTimeout:     p.v.GetDuration("server.read_timeout"),
		ShutdownTimeout: p.v.GetDuration("server.shutdown_timeout"),
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Parse auth settings.
	cfg.Auth = models.AuthConfig{
		Password:     p.fileValue("auth.password"),
		PasswordHash: p.v.GetString("auth.password_hash"), // never expanded, bcrypt hashes contain '$'
	}

	if cfg.Auth.Password == "" && cfg.Auth.PasswordHash == "" {
		cfg.Auth.Password = models.DefaultPassword
	}

	// Parse WOL target.
	cfg.WOL = models.WOLConfig{
		BroadcastAddress: p.v.GetString("wol.broadcast_address"),
		Port:             p.v.GetInt("wol.port"),
	}

	if cfg.WOL.BroadcastAddress == "" {
		cfg.WOL.BroadcastAddress = DefaultBroadcastAddress
	}
	if cfg.WOL.Port == 0 {
		cfg.WOL.Port = DefaultPort
	}

	// Parse optional Telegram config.
	if p.v.IsSet("telegram") || p.v.IsSet("telegram.bot_token") {
		cfg.Telegram = &models.TelegramConfig{
			BotToken: p.fileValue("telegram.bot_token"),
			ChatID:   p.fileValue("telegram.chat_id"),
		}

		if cfg.Telegram.BotToken == "" {
			return nil, fmt.Errorf("telegram.bot_token is required when telegram is configured")
		}
		if cfg.Telegram.ChatID == "" {
			return nil, fmt.Errorf("telegram.chat_id is required when telegram is configured")
		}
	}

	return cfg, nil
}

// fileValue returns key, expanding environment references only when the
// value comes from the config file. An environment override is returned
// verbatim even if the file also sets key.
func (p *Parser) fileValue(key string) string {
	s := p.v.GetString(key)
	if p.v.InConfig(key) && !fromEnv(key) {
		return p.expandEnv(s)
	}
	return s
}

// fromEnv reports whether one of the variables bound to key is set.
// Empty variables are ignored, as viper does.
func fromEnv(key string) bool {
	for _, name := range envNames[key] {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is invalid: %w", cfg.Server.ListenAddress, err)
	}

	if ip := net.ParseIP(cfg.WOL.BroadcastAddress); ip == nil || ip.To4() == nil {
		return fmt.Errorf("wol.broadcast_address %q must be an IPv4 address", cfg.WOL.BroadcastAddress)
	}

	if cfg.WOL.Port < 1 || cfg.WOL.Port > 65535 {
		return fmt.Errorf("wol.port must be between 1 and 65535, got %d", cfg.WOL.Port)
	}

	if cfg.Auth.Password == "" && cfg.Auth.PasswordHash == "" {
		return fmt.Errorf("auth.password or auth.password_hash is required")
	}

	return nil
}

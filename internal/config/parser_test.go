package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fgeck/wakegate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables the parser reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"WOL_PASSWORD",
		"WAKEGATE_AUTH_PASSWORD",
		"WAKEGATE_AUTH_PASSWORD_HASH",
		"WAKEGATE_SERVER_LISTEN_ADDRESS",
		"WAKEGATE_WOL_BROADCAST_ADDRESS",
		"WAKEGATE_WOL_PORT",
		"WAKEGATE_TELEGRAM_BOT_TOKEN",
		"WAKEGATE_TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestParser_Load_Defaults(t *testing.T) {
	clearEnv(t)

	parser := NewParser()
	cfg, err := parser.Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.ListenAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "changeme", cfg.Auth.Password)
	assert.True(t, cfg.Auth.UsesDefaultPassword())
	assert.Equal(t, "255.255.255.255", cfg.WOL.BroadcastAddress)
	assert.Equal(t, 9, cfg.WOL.Port)
	assert.Nil(t, cfg.Telegram)
}

func TestParser_Load_WOLPasswordEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("WOL_PASSWORD", "from-env")

	parser := NewParser()
	cfg, err := parser.Load()

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Password)
	assert.False(t, cfg.Auth.UsesDefaultPassword())
}

func TestParser_Load_PrefixedEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WAKEGATE_SERVER_LISTEN_ADDRESS", "127.0.0.1:8080")
	t.Setenv("WAKEGATE_WOL_BROADCAST_ADDRESS", "192.168.1.255")
	t.Setenv("WAKEGATE_WOL_PORT", "7")
	t.Setenv("WAKEGATE_AUTH_PASSWORD", "prefixed")
	t.Setenv("WOL_PASSWORD", "plain")

	parser := NewParser()
	cfg, err := parser.Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.ListenAddress)
	assert.Equal(t, "192.168.1.255", cfg.WOL.BroadcastAddress)
	assert.Equal(t, 7, cfg.WOL.Port)
	assert.Equal(t, "prefixed", cfg.Auth.Password)
}

func TestParser_Load_TelegramFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("WAKEGATE_TELEGRAM_BOT_TOKEN", "123456:ABC")
	t.Setenv("WAKEGATE_TELEGRAM_CHAT_ID", "-100123456789")

	parser := NewParser()
	cfg, err := parser.Load()

	require.NoError(t, err)
	require.NotNil(t, cfg.Telegram)
	assert.Equal(t, "123456:ABC", cfg.Telegram.BotToken)
	assert.Equal(t, "-100123456789", cfg.Telegram.ChatID)
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	clearEnv(t)

	yaml := `
server:
  listen_address: "127.0.0.1:8080"
  read_timeout: 5s
  shutdown_timeout: 30s

auth:
  password: "secret123"

wol:
  broadcast_address: "192.168.1.255"
  port: 7

telegram:
  bot_token: "123456:ABC"
  chat_id: "-100123456789"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)

	// Server
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.ListenAddress)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	// Auth
	assert.Equal(t, "secret123", cfg.Auth.Password)
	assert.Empty(t, cfg.Auth.PasswordHash)

	// WOL
	assert.Equal(t, "192.168.1.255", cfg.WOL.BroadcastAddress)
	assert.Equal(t, 7, cfg.WOL.Port)

	// Telegram
	require.NotNil(t, cfg.Telegram)
	assert.Equal(t, "123456:ABC", cfg.Telegram.BotToken)
	assert.Equal(t, "-100123456789", cfg.Telegram.ChatID)
}

func TestParser_LoadReader_EnvVarExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_WOL_SECRET", "env_secret")
	t.Setenv("TEST_BOT_TOKEN", "env_token")

	yaml := `
auth:
  password: "${TEST_WOL_SECRET}"
telegram:
  bot_token: "$TEST_BOT_TOKEN"
  chat_id: "42"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "env_secret", cfg.Auth.Password)
	assert.Equal(t, "env_token", cfg.Telegram.BotToken)
}

func TestParser_LoadReader_PasswordHashOnly(t *testing.T) {
	clearEnv(t)

	yaml := `
auth:
  password_hash: "$2a$10$abcdefghijklmnopqrstuu"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.Password)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuu", cfg.Auth.PasswordHash)
	assert.False(t, cfg.Auth.UsesDefaultPassword())
}

func TestParser_Load_EnvPasswordNotExpanded(t *testing.T) {
	clearEnv(t)
	t.Setenv("WOL_PASSWORD", "pa$word")

	parser := NewParser()
	cfg, err := parser.Load()

	require.NoError(t, err)
	assert.Equal(t, "pa$word", cfg.Auth.Password)
}

func TestParser_LoadReader_EnvSecretReferencedFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("WOL_PASSWORD", "pa$word$1")
	t.Setenv("WAKEGATE_TELEGRAM_BOT_TOKEN", "123:$tok")

	yaml := `
auth:
  password: ${WOL_PASSWORD}
telegram:
  bot_token: ${WAKEGATE_TELEGRAM_BOT_TOKEN}
  chat_id: "42"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "pa$word$1", cfg.Auth.Password)
	assert.Equal(t, "123:$tok", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
}

func TestParser_LoadReader_EnvOverridesFileSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("WAKEGATE_AUTH_PASSWORD", "$ecret")

	yaml := `
auth:
  password: from_file
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "$ecret", cfg.Auth.Password)
}

func TestParser_LoadReader_Telegram_MissingBotToken(t *testing.T) {
	clearEnv(t)

	yaml := `
telegram:
  chat_id: "-100123456789"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.bot_token is required")
}

func TestParser_LoadReader_Telegram_MissingChatID(t *testing.T) {
	clearEnv(t)

	yaml := `
telegram:
  bot_token: "123456:ABC"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.chat_id is required")
}

func TestParser_LoadReader_InvalidYAML(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader("server: [unclosed")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestParser_LoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "wakegate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wol:\n  broadcast_address: \"10.0.0.255\"\n"), 0o600))

	parser := NewParser()
	cfg, err := parser.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.255", cfg.WOL.BroadcastAddress)
	assert.Equal(t, 9, cfg.WOL.Port)
}

func TestParser_LoadFile_NotFound(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func validConfig() *models.Config {
	return &models.Config{
		Server: models.ServerConfig{ListenAddress: "0.0.0.0:5000"},
		Auth:   models.AuthConfig{Password: "secret"},
		WOL:    models.WOLConfig{BroadcastAddress: "255.255.255.255", Port: 9},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *models.Config)
		nilCfg  bool
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config",
			nilCfg:  true,
			wantErr: true,
			errMsg:  "configuration is nil",
		},
		{
			name:    "invalid listen address",
			mutate:  func(cfg *models.Config) { cfg.Server.ListenAddress = "localhost" },
			wantErr: true,
			errMsg:  "server.listen_address",
		},
		{
			name:    "hostname broadcast address",
			mutate:  func(cfg *models.Config) { cfg.WOL.BroadcastAddress = "broadcast.local" },
			wantErr: true,
			errMsg:  "must be an IPv4 address",
		},
		{
			name:    "ipv6 broadcast address",
			mutate:  func(cfg *models.Config) { cfg.WOL.BroadcastAddress = "ff02::1" },
			wantErr: true,
			errMsg:  "must be an IPv4 address",
		},
		{
			name:    "port too large",
			mutate:  func(cfg *models.Config) { cfg.WOL.Port = 65536 },
			wantErr: true,
			errMsg:  "wol.port must be between 1 and 65535",
		},
		{
			name:    "negative port",
			mutate:  func(cfg *models.Config) { cfg.WOL.Port = -1 },
			wantErr: true,
			errMsg:  "wol.port must be between 1 and 65535",
		},
		{
			name:    "missing secret",
			mutate:  func(cfg *models.Config) { cfg.Auth = models.AuthConfig{} },
			wantErr: true,
			errMsg:  "auth.password or auth.password_hash is required",
		},
		{
			name:    "valid config",
			mutate:  func(cfg *models.Config) {},
			wantErr: false,
		},
		{
			name:    "subnet broadcast",
			mutate:  func(cfg *models.Config) { cfg.WOL.BroadcastAddress = "192.168.1.255" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg *models.Config
			if !tt.nilCfg {
				cfg = validConfig()
				tt.mutate(cfg)
			}

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

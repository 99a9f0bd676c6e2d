// Package models contains the data structures used throughout wakegate.
package models

import "time"

// Config holds the complete configuration of a wakegate process.
// It is built once at startup and never mutated afterwards.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	WOL      WOLConfig
	Telegram *TelegramConfig // nil if not configured
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds the shared secret guarding the wake endpoint.
type AuthConfig struct {
	Password     string // plain shared secret
	PasswordHash string // bcrypt hash, takes precedence over Password
}

// UsesDefaultPassword reports whether the built-in fallback secret is active.
func (a AuthConfig) UsesDefaultPassword() bool {
	return a.PasswordHash == "" && a.Password == DefaultPassword
}

// DefaultPassword is used when neither a secret nor a hash is configured.
const DefaultPassword = "changeme"

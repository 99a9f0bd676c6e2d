// Package auth checks the shared secret guarding the wake endpoint.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/fgeck/wakegate/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned when a supplied password does not match.
var ErrUnauthorized = errors.New("unauthorized")

// Authorizer verifies passwords against a plain secret or a bcrypt hash.
type Authorizer struct {
	secret []byte
	hash   []byte
}

// New creates an Authorizer. A configured PasswordHash takes precedence
// over Password and must be a valid bcrypt hash.
func New(cfg models.AuthConfig) (*Authorizer, error) {
	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		return &Authorizer{hash: []byte(cfg.PasswordHash)}, nil
	}

	if cfg.Password == "" {
		return nil, errors.New("no password configured")
	}
	return &Authorizer{secret: []byte(cfg.Password)}, nil
}

// Check returns ErrUnauthorized unless password matches. The comparison
// against a plain secret runs in constant time.
func (a *Authorizer) Check(password string) error {
	if a.hash != nil {
		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
			return ErrUnauthorized
		}
		return nil
	}

	if subtle.ConstantTimeCompare(a.secret, []byte(password)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

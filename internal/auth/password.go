package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/model"
)

// Scheme names how passwords are stored.
type Scheme string

const (
	// SchemeBcrypt stores bcrypt hashes.
	SchemeBcrypt Scheme = "bcrypt"
	// SchemePlaintext stores and compares passwords verbatim. It exists only
	// for databases written by the legacy service and is insecure: anyone
	// who can read the users table can read every password.
	SchemePlaintext Scheme = "plaintext"
)

// ParseScheme parses a PASSWORD_SCHEME value. Empty means bcrypt.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case "", SchemeBcrypt:
		return SchemeBcrypt, nil
	case SchemePlaintext:
		return SchemePlaintext, nil
	default:
		return "", fmt.Errorf("unknown password scheme %q (want %q or %q)", s, SchemeBcrypt, SchemePlaintext)
	}
}

// Passwords hashes and verifies passwords under one scheme.
type Passwords struct {
	scheme Scheme
	cost   int
}

// PasswordOption configures Passwords.
type PasswordOption func(*Passwords)

// WithCost sets the bcrypt cost.
func WithCost(cost int) PasswordOption {
	return func(p *Passwords) { p.cost = cost }
}

// NewPasswords returns a Passwords for scheme.
func NewPasswords(scheme Scheme, opts ...PasswordOption) *Passwords {
	p := &Passwords{scheme: scheme, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scheme returns the configured scheme.
func (p *Passwords) Scheme() Scheme {
	return p.scheme
}

// Hash returns the stored form of password.
func (p *Passwords) Hash(password string) (string, error) {
	if p.scheme == SchemePlaintext {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &model.ValidationError{Field: "password", Reason: "password must be at most 72 bytes"}
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored form.
func (p *Passwords) Verify(stored, password string) bool {
	if p.scheme == SchemePlaintext {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

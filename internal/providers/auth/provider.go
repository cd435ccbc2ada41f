package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest secret ChangePassword accepts
	MinPasswordLength = 4
	// TokenTTL is how long a login token stays valid
	TokenTTL = 24 * time.Hour
)

var (
	ErrInvalidPassword  = errors.New("incorrect password")
	ErrPasswordMismatch = errors.New("new passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidToken     = errors.New("invalid or expired token")
)

// Provider verifies the desktop secret and tracks login sessions.
// The secret itself lives in desktop state; the provider only compares,
// hashes and issues tokens.
type Provider struct {
	sessions sync.Map
	now      func() time.Time
	cost     int
}

// Session represents an active login
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Option configures a Provider
type Option func(*Provider)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithCost sets the bcrypt cost for new hashes
func WithCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// NewProvider creates an auth provider
func NewProvider(opts ...Option) *Provider {
	p := &Provider{now: time.Now, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Matches compares a candidate with the stored secret. Stored values that
// are not bcrypt hashes are compared as plaintext, which covers the factory
// default and blobs written before hashing was introduced.
func Matches(stored, candidate string) bool {
	if isHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return stored == candidate
}

// Hash returns a bcrypt hash of secret
func (p *Provider) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the candidate and opens a session
func (p *Provider) Login(stored, candidate string) (*Session, error) {
	if candidate == "" || !Matches(stored, candidate) {
		return nil, ErrInvalidPassword
	}

	now := p.now()
	session := &Session{
		Token:     generateToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(TokenTTL),
	}
	p.sessions.Store(session.Token, session)
	return session, nil
}

// Verify reports whether token belongs to a live session
func (p *Provider) Verify(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	val, ok := p.sessions.Load(token)
	if !ok {
		return ErrInvalidToken
	}
	session := val.(*Session)
	if p.now().After(session.ExpiresAt) {
		p.sessions.Delete(token)
		return ErrInvalidToken
	}
	return nil
}

// Logout ends a session
func (p *Provider) Logout(token string) {
	p.sessions.Delete(token)
}

// ChangePassword validates a change request against the stored secret and
// returns the hash to store
func (p *Provider) ChangePassword(stored, current, next, confirm string) (string, error) {
	if !Matches(stored, current) {
		return "", ErrInvalidPassword
	}
	if next != confirm {
		return "", ErrPasswordMismatch
	}
	if len([]rune(next)) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	return p.Hash(next)
}

// ActiveSessions counts unexpired sessions
func (p *Provider) ActiveSessions() int {
	now := p.now()
	n := 0
	p.sessions.Range(func(key, val any) bool {
		if now.After(val.(*Session).ExpiresAt) {
			p.sessions.Delete(key)
		} else {
			n++
		}
		return true
	})
	return n
}

// isHash reports whether s parses as a bcrypt hash
func isHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing leaves no safe fallback
		panic(fmt.Sprintf("crypto/rand failed: %v - cannot generate secure token", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}

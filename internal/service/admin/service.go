// Package admin gates the editing API behind a shared password and issues
// short-lived sessions that expire after a period of inactivity.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"vkseva-content/internal/domain"
)

var (
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a missing, expired or revoked session.
	ErrInvalidToken = errors.New("invalid token")
	// ErrRateLimited is returned when a client exceeds its login attempts.
	ErrRateLimited = errors.New("too many login attempts")
	// ErrNotConfigured is returned when no admin password has been set up.
	ErrNotConfigured = errors.New("admin password not configured")
)

// SessionStore persists sessions by token hash with a sliding TTL.
type SessionStore interface {
	Save(ctx context.Context, tokenHash string, ttl time.Duration) error
	Touch(ctx context.Context, tokenHash string, ttl time.Duration) error
	Revoke(ctx context.Context, tokenHash string) error
}

type Options struct {
	PasswordHash       string
	IdleTimeout        time.Duration
	LoginRatePerMinute int
}

type Service struct {
	hash    []byte
	idle    time.Duration
	tokens  *tokenManager
	perMin  int
	now     func() time.Time
	limitMu sync.Mutex
	limits  map[string]*rate.Limiter
}

func New(sessions SessionStore, opts Options) *Service {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Minute
	}
	if opts.LoginRatePerMinute <= 0 {
		opts.LoginRatePerMinute = 10
	}
	return &Service{
		hash:   []byte(opts.PasswordHash),
		idle:   opts.IdleTimeout,
		tokens: newTokenManager(sessions),
		perMin: opts.LoginRatePerMinute,
		now:    time.Now,
		limits: make(map[string]*rate.Limiter),
	}
}

// HashPassword returns the bcrypt hash used for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least %d characters", 8)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Login checks password and returns a new session token. client identifies
// the caller for rate limiting, usually its IP address.
func (s *Service) Login(ctx context.Context, client, password string) (string, error) {
	if len(s.hash) == 0 {
		return "", ErrNotConfigured
	}
	if !s.limiter(client).Allow() {
		return "", ErrRateLimited
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, s.idle)
}

// Authenticate validates token and extends its idle deadline.
func (s *Service) Authenticate(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	err := s.tokens.Touch(ctx, token, s.idle)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}

func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.tokens.Revoke(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}

func (s *Service) IdleTimeoutSeconds() int {
	return int(s.idle.Seconds())
}

func (s *Service) limiter(client string) *rate.Limiter {
	s.limitMu.Lock()
	defer s.limitMu.Unlock()
	l, ok := s.limits[client]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limits[client] = l
	}
	return l
}

// Purge forgets login limiters that have refilled to their full burst and
// returns how many it removed.
func (s *Service) Purge(context.Context) (int64, error) {
	now := s.now()
	s.limitMu.Lock()
	defer s.limitMu.Unlock()
	var n int64
	for client, l := range s.limits {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(s.limits, client)
			n++
		}
	}
	return n, nil
}

package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"vkseva-content/internal/domain"
)

// memorySessions is a minimal session store that can be told to collide.
type memorySessions struct {
	live       map[string]time.Duration
	collisions int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{live: make(map[string]time.Duration)}
}

func (m *memorySessions) Save(_ context.Context, hash string, ttl time.Duration) error {
	if m.collisions > 0 {
		m.collisions--
		return domain.ErrAlreadyExists
	}
	if _, ok := m.live[hash]; ok {
		return domain.ErrAlreadyExists
	}
	m.live[hash] = ttl
	return nil
}

func (m *memorySessions) Touch(_ context.Context, hash string, ttl time.Duration) error {
	if _, ok := m.live[hash]; !ok {
		return domain.ErrNotFound
	}
	m.live[hash] = ttl
	return nil
}

func (m *memorySessions) Revoke(_ context.Context, hash string) error {
	if _, ok := m.live[hash]; !ok {
		return domain.ErrNotFound
	}
	delete(m.live, hash)
	return nil
}

func newTestService(t *testing.T, sessions SessionStore, perMinute int) *Service {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return New(sessions, Options{PasswordHash: string(hashed), IdleTimeout: time.Minute, LoginRatePerMinute: perMinute})
}

func TestLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	sessions := newMemorySessions()
	svc := newTestService(t, sessions, 10)

	token, err := svc.Login(ctx, "10.0.0.1", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if _, stored := sessions.live[token]; stored {
		t.Fatalf("raw token must not be stored")
	}
	if sessions.live[hashToken(token)] != time.Minute {
		t.Fatalf("expected session stored with idle ttl")
	}

	if err := svc.Authenticate(ctx, token); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, newMemorySessions(), 10)
	if _, err := svc.Login(context.Background(), "c", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	svc := newTestService(t, newMemorySessions(), 2)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := svc.Login(ctx, "c", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Login(ctx, "c", "correct-horse"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if _, err := svc.Login(ctx, "other", "correct-horse"); err != nil {
		t.Fatalf("other clients keep their own budget: %v", err)
	}
}

func TestLoginRetriesTokenCollision(t *testing.T) {
	sessions := newMemorySessions()
	sessions.collisions = 2
	svc := newTestService(t, sessions, 10)
	if _, err := svc.Login(context.Background(), "c", "correct-horse"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	sessions.collisions = 5
	if _, err := svc.Login(context.Background(), "c", "correct-horse"); err == nil {
		t.Fatalf("expected collision error after five attempts")
	}
}

func TestNotConfigured(t *testing.T) {
	svc := New(newMemorySessions(), Options{})
	if _, err := svc.Login(context.Background(), "c", "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if svc.IdleTimeoutSeconds() != 300 {
		t.Fatalf("expected 5 minute default, got %d", svc.IdleTimeoutSeconds())
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatalf("expected length error")
	}
	hashed, err := HashPassword("long-enough")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte("long-enough")) != nil {
		t.Fatalf("hash does not verify")
	}
}

func TestPurgeDropsRefilledLimiters(t *testing.T) {
	s := newTestService(t, newMemorySessions(), 2)
	ctx := context.Background()

	for _, client := range []string{"10.0.0.1", "10.0.0.2"} {
		if _, err := s.Login(ctx, client, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if n, err := s.Purge(ctx); err != nil || n != 0 {
		t.Fatalf("limiters still draining must be kept, purged %d (%v)", n, err)
	}
	if len(s.limits) != 2 {
		t.Fatalf("expected 2 limiters, got %d", len(s.limits))
	}

	s.now = func() time.Time { return time.Now().Add(time.Minute) }
	if n, err := s.Purge(ctx); err != nil || n != 2 {
		t.Fatalf("expected both refilled limiters purged, got %d (%v)", n, err)
	}
	if len(s.limits) != 0 {
		t.Fatalf("expected no limiters left, got %d", len(s.limits))
	}
	if _, err := s.Login(ctx, "10.0.0.1", "correct-horse"); err != nil {
		t.Fatalf("login after purge: %v", err)
	}
}

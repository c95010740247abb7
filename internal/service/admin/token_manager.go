package admin

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"vkseva-content/internal/domain"
)

// tokenManager hands out opaque tokens; only their SHA-256 reaches storage.
type tokenManager struct {
	store SessionStore
}

func newTokenManager(store SessionStore) *tokenManager {
	return &tokenManager{store: store}
}

func (m *tokenManager) Issue(ctx context.Context, ttl time.Duration) (string, error) {
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.store.Save(ctx, hashToken(token), ttl)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

func (m *tokenManager) Touch(ctx context.Context, token string, ttl time.Duration) error {
	return m.store.Touch(ctx, hashToken(token), ttl)
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	return m.store.Revoke(ctx, hashToken(token))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package session

import (
	"context"
	"sync"
	"time"

	"vkseva-content/internal/domain"
)

// MemoryStore keeps sessions in process. Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, tokenHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, ok := s.sessions[tokenHash]; ok && s.now().Before(exp) {
		return domain.ErrAlreadyExists
	}
	s.sessions[tokenHash] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, tokenHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[tokenHash]
	if !ok {
		return domain.ErrNotFound
	}
	now := s.now()
	if !now.Before(exp) {
		delete(s.sessions, tokenHash)
		return domain.ErrNotFound
	}
	s.sessions[tokenHash] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) Revoke(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[tokenHash]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, tokenHash)
	return nil
}

// Purge drops expired sessions.
func (s *MemoryStore) Purge(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for k, exp := range s.sessions {
		if !now.Before(exp) {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

// Package session persists admin sessions in Postgres, keyed by the SHA-256
// of the bearer token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"vkseva-content/internal/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

func (s *PostgresStore) Save(ctx context.Context, tokenHash string, ttl time.Duration) error {
	const q = `
INSERT INTO admin_sessions (token_hash, expires_at)
VALUES ($1, $2)
`
	_, err := s.pool.Exec(ctx, q, tokenHash, s.now().Add(ttl))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Touch slides the expiry of a live session. Expired sessions are removed
// and reported as not found.
func (s *PostgresStore) Touch(ctx context.Context, tokenHash string, ttl time.Duration) error {
	now := s.now()
	cmd, err := s.pool.Exec(ctx, `UPDATE admin_sessions SET expires_at = $2 WHERE token_hash = $1 AND expires_at > $3`, tokenHash, now.Add(ttl), now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		_, _ = s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE token_hash = $1`, tokenHash)
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Revoke(ctx context.Context, tokenHash string) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Purge deletes expired sessions and reports how many were removed.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

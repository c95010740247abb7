package settings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"vkseva-content/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, key domain.SectionKey) (json.RawMessage, int, error) {
	var (
		data    []byte
		version int
	)
	err := r.pool.QueryRow(ctx, `SELECT data, version FROM settings WHERE key = $1`, string(key)).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, domain.ErrNotFound
		}
		r.logger.Printf("settings repo: get key=%s error=%v", key, err)
		return nil, 0, err
	}
	return json.RawMessage(data), version, nil
}

func (r *postgresRepo) Merge(ctx context.Context, key domain.SectionKey, doc json.RawMessage, version int) error {
	const q = `
INSERT INTO settings (key, data, version)
VALUES ($1, $2::jsonb, $3)
ON CONFLICT (key) DO UPDATE
SET data = settings.data || EXCLUDED.data,
    version = EXCLUDED.version,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, string(key), string(doc), version); err != nil {
		r.logger.Printf("settings repo: merge key=%s error=%v", key, err)
		return err
	}
	r.logger.Printf("settings repo: merged key=%s version=%d", key, version)
	return nil
}

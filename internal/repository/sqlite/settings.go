package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vkseva-content/internal/domain"
)

// SettingsRepo implements settings.Repository on sqlite.
type SettingsRepo struct {
	db *sql.DB
}

func (d *DB) Settings() *SettingsRepo {
	return &SettingsRepo{db: d.db}
}

func (r *SettingsRepo) Get(ctx context.Context, key domain.SectionKey) (json.RawMessage, int, error) {
	var (
		data    string
		version int
	)
	err := r.db.QueryRowContext(ctx, `SELECT data, version FROM settings WHERE key = ?`, string(key)).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, domain.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return json.RawMessage(data), version, nil
}

// Merge reads, overlays and writes the document inside one transaction;
// sqlite's json_patch would also drop keys set to null, which a shallow
// merge must keep.
func (r *SettingsRepo) Merge(ctx context.Context, key domain.SectionKey, doc json.RawMessage, version int) (retErr error) {
	var incoming map[string]json.RawMessage
	if err := json.Unmarshal(doc, &incoming); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	merged := map[string]json.RawMessage{}
	var existing string
	err = tx.QueryRowContext(ctx, `SELECT data FROM settings WHERE key = ?`, string(key)).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	default:
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			return fmt.Errorf("decode stored %s: %w", key, err)
		}
		if merged == nil {
			merged = map[string]json.RawMessage{}
		}
	}
	for k, v := range incoming {
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO settings (key, data, version) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET data = excluded.data, version = excluded.version, updated_at = strftime('%Y-%m-%dT%H:%M:%f', 'now')
`
	if _, err := tx.ExecContext(ctx, q, string(key), string(out), version); err != nil {
		return err
	}
	return tx.Commit()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"vkseva-content/internal/domain"
)

// CardRepo implements card.Repository on sqlite.
type CardRepo struct {
	db *sql.DB
}

func (d *DB) Cards() *CardRepo {
	return &CardRepo{db: d.db}
}

func (r *CardRepo) List(ctx context.Context) ([]domain.Card, error) {
	const q = `
SELECT id, title, subtitle, icon, gradient, link, image, active, sort_order, badges
FROM cards
ORDER BY sort_order ASC, created_at ASC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []domain.Card
	for rows.Next() {
		var (
			c      domain.Card
			badges string
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Subtitle, &c.Icon, &c.Gradient, &c.Link, &c.Image, &c.Active, &c.Order, &badges); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(badges), &c.Badges); err != nil {
			return nil, fmt.Errorf("decode badges for %s: %w", c.ID, err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CardRepo) Create(ctx context.Context, c domain.Card) (string, error) {
	badges, err := encodeBadges(c.Badges)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	const q = `
INSERT INTO cards (id, title, subtitle, icon, gradient, link, image, active, sort_order, badges)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := r.db.ExecContext(ctx, q, id, c.Title, c.Subtitle, c.Icon, c.Gradient, c.Link, c.Image, c.Active, c.Order, badges); err != nil {
		return "", err
	}
	return id, nil
}

func (r *CardRepo) Update(ctx context.Context, id string, patch domain.CardPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Subtitle != nil {
		add("subtitle", *patch.Subtitle)
	}
	if patch.Icon != nil {
		add("icon", *patch.Icon)
	}
	if patch.Gradient != nil {
		add("gradient", *patch.Gradient)
	}
	if patch.Link != nil {
		add("link", *patch.Link)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if patch.Order != nil {
		add("sort_order", *patch.Order)
	}
	if patch.Badges != nil {
		badges, err := encodeBadges(*patch.Badges)
		if err != nil {
			return err
		}
		add("badges", badges)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, "UPDATE cards SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *CardRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *CardRepo) SetOrders(ctx context.Context, changes []domain.OrderChange) (retErr error) {
	if len(changes) == 0 {
		return nil
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
	for _, ch := range changes {
		res, err := tx.ExecContext(ctx, `UPDATE cards SET sort_order = ? WHERE id = ?`, ch.Order, ch.ID)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return fmt.Errorf("set order id=%s: %w", ch.ID, err)
		}
	}
	return tx.Commit()
}

func encodeBadges(badges []string) (string, error) {
	if badges == nil {
		badges = []string{}
	}
	b, err := json.Marshal(badges)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

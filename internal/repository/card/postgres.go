package card

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Card, error) {
	const q = `
SELECT id::text, title, subtitle, icon, gradient, link, image, active, sort_order, badges
FROM cards
ORDER BY sort_order ASC, created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("card repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Title, &c.Subtitle, &c.Icon, &c.Gradient, &c.Link, &c.Image, &c.Active, &c.Order, &c.Badges); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("card repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Card) (string, error) {
	const q = `
INSERT INTO cards (title, subtitle, icon, gradient, link, image, active, sort_order, badges)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text
`
	badges := c.Badges
	if badges == nil {
		badges = []string{}
	}
	var id string
	err := r.pool.QueryRow(ctx, q, c.Title, c.Subtitle, c.Icon, c.Gradient, c.Link, c.Image, c.Active, c.Order, badges).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", domain.ErrAlreadyExists
		}
		r.logger.Printf("card repo: create title=%q error=%v", c.Title, err)
		return "", err
	}
	r.logger.Printf("card repo: created id=%s order=%d", id, c.Order)
	return id, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, patch domain.CardPatch) error {
	sets, args := patchColumns(patch)
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE cards SET %s, updated_at = now() WHERE id = $%d::uuid`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, q, args...)
	if isInvalidID(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		r.logger.Printf("card repo: update id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1::uuid`, id)
	if isInvalidID(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		r.logger.Printf("card repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("card repo: deleted id=%s", id)
	return nil
}

// SetOrders applies every order change in one transaction, so a renumbering
// or swap is never half-written.
func (r *postgresRepo) SetOrders(ctx context.Context, changes []domain.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, ch := range changes {
			cmd, err := tx.Exec(ctx, `UPDATE cards SET sort_order = $1, updated_at = now() WHERE id = $2::uuid`, ch.Order, ch.ID)
			if isInvalidID(err) {
				return fmt.Errorf("set order id=%s: %w", ch.ID, domain.ErrNotFound)
			}
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return fmt.Errorf("set order id=%s: %w", ch.ID, domain.ErrNotFound)
			}
		}
		r.logger.Printf("card repo: reordered count=%d", len(changes))
		return nil
	})
}

// isInvalidID reports whether err is Postgres rejecting an id that is not a
// uuid. No card can have such an id.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func patchColumns(p domain.CardPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Subtitle != nil {
		add("subtitle", *p.Subtitle)
	}
	if p.Icon != nil {
		add("icon", *p.Icon)
	}
	if p.Gradient != nil {
		add("gradient", *p.Gradient)
	}
	if p.Link != nil {
		add("link", *p.Link)
	}
	if p.Image != nil {
		add("image", *p.Image)
	}
	if p.Active != nil {
		add("active", *p.Active)
	}
	if p.Order != nil {
		add("sort_order", *p.Order)
	}
	if p.Badges != nil {
		badges := *p.Badges
		if badges == nil {
			badges = []string{}
		}
		add("badges", badges)
	}
	return sets, args
}

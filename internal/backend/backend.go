// Package backend opens the persistence stack selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"vkseva-content/internal/config"
	"vkseva-content/internal/db"
	cardrepo "vkseva-content/internal/repository/card"
	sessionrepo "vkseva-content/internal/repository/session"
	settingsrepo "vkseva-content/internal/repository/settings"
	"vkseva-content/internal/repository/sqlite"
	"vkseva-content/internal/service/admin"
	"vkseva-content/internal/service/cards"
	"vkseva-content/internal/service/settings"
	"vkseva-content/internal/session"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Backend holds the repositories for one configured driver.
type Backend struct {
	Driver   string
	Cards    cards.Repository
	Settings settings.Repository
	DB       pinger
	// Pool is set only for the postgres driver.
	Pool *pgxpool.Pool

	closers []func()
}

// Open connects to the store named by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case "", DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Backend{
			Driver:   DriverPostgres,
			Cards:    cardrepo.NewPostgres(pool, logger),
			Settings: settingsrepo.NewPostgres(pool, logger),
			DB:       pool,
			Pool:     pool,
			closers:  []func(){pool.Close},
		}, nil
	case DriverSQLite:
		sdb, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Backend{
			Driver:   DriverSQLite,
			Cards:    sdb.Cards(),
			Settings: sdb.Settings(),
			DB:       sdb,
			closers:  []func(){func() { _ = sdb.Close() }},
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Purger drops expired sessions; nil when the backend expires them itself.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Sessions picks the admin session store: Redis when REDIS_URL is set,
// otherwise Postgres, otherwise process memory.
func (b *Backend) Sessions(ctx context.Context, cfg config.Config, logger *log.Logger) (admin.SessionStore, Purger, error) {
	if strings.TrimSpace(cfg.RedisURL) != "" {
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		logger.Printf("using redis for admin sessions")
		return store, nil, nil
	}
	if b.Pool != nil {
		store := sessionrepo.NewPostgres(b.Pool)
		return store, store, nil
	}
	logger.Printf("using in-memory admin sessions; logins reset on restart")
	store := session.NewMemoryStore()
	return store, store, nil
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

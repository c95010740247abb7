package backend

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"vkseva-content/internal/config"
	"vkseva-content/internal/session"
)

func TestOpenSQLiteWithMemorySessions(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	cfg := config.Config{StoreDriver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "db", "content.db")}

	b, err := Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if err := b.DB.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	store, purger, err := b.Sessions(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if _, ok := store.(*session.MemoryStore); !ok || purger == nil {
		t.Fatalf("expected memory session store with purger, got %T", store)
	}
}

func TestSessionsPreferRedis(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	mr := miniredis.RunT(t)
	cfg := config.Config{StoreDriver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "content.db"), RedisURL: "redis://" + mr.Addr()}

	b, err := Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	store, purger, err := b.Sessions(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if _, ok := store.(*session.RedisStore); !ok || purger != nil {
		t.Fatalf("expected redis store without purger, got %T", store)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.Config{StoreDriver: "mongo"}, log.New(io.Discard, "", 0)); err == nil {
		t.Fatalf("expected error")
	}
}

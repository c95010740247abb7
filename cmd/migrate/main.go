package main

import (
	"context"
	"flag"
	"log"
	"os"

	"vkseva-content/internal/config"
	"vkseva-content/internal/db"
	"vkseva-content/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.StoreDriver == "sqlite" {
		logger.Println("sqlite creates its schema on open; nothing to migrate")
		return
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down {
		if err := migrate.Down(ctx, pool); err != nil {
			logger.Fatalf("roll back migrations: %v", err)
		}
		logger.Println("migrations rolled back")
		return
	}

	if err := migrate.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Println("migrations applied")
}

package main

import (
	"context"
	"log"
	"os"

	"vkseva-content/internal/backend"
	"vkseva-content/internal/config"
	"vkseva-content/internal/seed"
	"vkseva-content/internal/service/cards"
	"vkseva-content/internal/service/settings"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	be, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer be.Close()

	if err := seed.Apply(ctx, cards.New(be.Cards, logger), settings.New(be.Settings, logger)); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}

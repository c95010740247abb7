package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vkseva-content/internal/backend"
	"vkseva-content/internal/config"
	"vkseva-content/internal/importer"
	"vkseva-content/internal/service/cards"
)

func main() {
	var (
		filePath     string
		skipExisting bool
	)
	flag.StringVar(&filePath, "file", "", "Path to cards CSV (title,subtitle,icon,gradient,link,image,active,badges)")
	flag.BoolVar(&skipExisting, "skip-existing", true, "Skip rows whose title matches an existing card")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	be, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer be.Close()

	store := cards.New(be.Cards, logger)
	if err := store.Sync(ctx); err != nil {
		logger.Fatalf("load cards: %v", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	start := time.Now()
	res, err := importer.NewCSVImporter(f, store, skipExisting).Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d cards: %v", res.Imported, err)
	}

	fmt.Printf("Imported %d cards (%d skipped) in %s\n", res.Imported, res.Skipped, time.Since(start).Truncate(time.Millisecond))
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vkseva-content/internal/backend"
	"vkseva-content/internal/blob"
	"vkseva-content/internal/config"
	"vkseva-content/internal/httpserver"
	"vkseva-content/internal/reconcile"
	"vkseva-content/internal/service/admin"
	"vkseva-content/internal/service/cards"
	"vkseva-content/internal/service/settings"
	"vkseva-content/internal/upload"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	be, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer be.Close()

	cardStore := cards.New(be.Cards, logger)
	settingsStore := settings.New(be.Settings, logger)
	fetchCtx, cancelFetch := context.WithTimeout(ctx, 30*time.Second)
	cardStore.Fetch(fetchCtx)
	settingsStore.Fetch(fetchCtx)
	cancelFetch()

	sessions, purger, err := be.Sessions(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init sessions: %v", err)
	}
	passwordHash := cfg.AdminPasswordHash
	if passwordHash == "" && cfg.AdminPassword != "" {
		if passwordHash, err = admin.HashPassword(cfg.AdminPassword); err != nil {
			logger.Fatalf("hash admin password: %v", err)
		}
	}
	if passwordHash == "" {
		logger.Printf("no ADMIN_PASSWORD_HASH or ADMIN_PASSWORD set; admin login disabled")
	}
	adminService := admin.New(sessions, admin.Options{
		PasswordHash:       passwordHash,
		IdleTimeout:        cfg.AdminIdleTimeout,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	})

	blobs, err := blob.Open(ctx, blob.Config{
		Driver:       cfg.BlobDriver,
		Root:         cfg.UploadDir,
		PublicPrefix: cfg.UploadPublicPrefix,
		S3: blob.S3Config{
			Bucket:    cfg.BlobS3Bucket,
			Region:    cfg.BlobS3Region,
			Endpoint:  cfg.BlobS3Endpoint,
			PathStyle: cfg.BlobS3PathStyle,
		},
		PublicBaseURL: cfg.BlobPublicBaseURL,
	})
	if err != nil {
		logger.Fatalf("open blob store: %v", err)
	}
	deps := httpserver.Deps{
		Cards:        cardStore,
		Settings:     settingsStore,
		Admin:        adminService,
		Uploader:     upload.New(blobs, cfg.UploadMaxBytes, logger),
		DB:           be.DB,
		CORSOrigins:  cfg.CORSOrigins,
		UploadPrefix: cfg.UploadPublicPrefix,
	}
	if fs, ok := blobs.(*blob.Filesystem); ok {
		deps.UploadDir = fs.Root()
	}

	scheduler, err := reconcile.New(cfg.ReconcileSchedule, logger, []reconcile.Purger{purger, adminService}, cardStore, settingsStore)
	if err != nil {
		logger.Fatalf("init reconcile: %v", err)
	}
	scheduler.Start()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, deps)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (store=%s, blobs=%s)", cfg.HTTPAddr, be.Driver, blobs.Driver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
	}
}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"vkseva-content/internal/blob"
	"vkseva-content/internal/domain"
	"vkseva-content/internal/metrics"
	"vkseva-content/internal/service/settings"
	"vkseva-content/internal/upload"
)

type CardStore interface {
	Cards() []domain.Card
	Active() []domain.Card
	Add(ctx context.Context, c domain.Card) (domain.Card, error)
	Update(ctx context.Context, id string, patch domain.CardPatch) (domain.Card, error)
	Remove(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (domain.Card, error)
	Move(ctx context.Context, id string, direction int) error
	Sync(ctx context.Context) error
}

type SettingsStore interface {
	Snapshot() domain.Settings
	Section(key domain.SectionKey) (json.RawMessage, error)
	Update(ctx context.Context, key domain.SectionKey, patch settings.Patch) (json.RawMessage, error)
	Sync(ctx context.Context) error
}

type AdminService interface {
	Login(ctx context.Context, client, password string) (string, error)
	Authenticate(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
	IdleTimeoutSeconds() int
}

type Uploader interface {
	Save(ctx context.Context, in upload.Input) (blob.Info, error)
	Release(ctx context.Context, url string) (bool, error)
	MaxBytes() int64
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries the services the router dispatches to.
type Deps struct {
	Cards    CardStore
	Settings SettingsStore
	Admin    AdminService
	Uploader Uploader
	DB       Pinger

	CORSOrigins []string
	// UploadDir is served at UploadPrefix when uploads live on local disk.
	UploadDir    string
	UploadPrefix string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Cards == nil || deps.Settings == nil || deps.Admin == nil {
		return nil, errors.New("cards, settings and admin dependencies are required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if deps.UploadDir != "" {
		prefix := deps.UploadPrefix
		if prefix == "" {
			prefix = "/uploads"
		}
		router.Static(prefix, deps.UploadDir)
	}

	h := &handlers{logger: logger, deps: deps}

	api := router.Group("/api")
	api.GET("/cards", h.listActiveCards)
	api.GET("/settings", h.getSettings)
	api.GET("/settings/:section", h.getSection)

	adminGroup := api.Group("/admin")
	adminGroup.POST("/login", h.login)

	authed := adminGroup.Group("")
	authed.Use(authMiddleware(deps.Admin, logger))
	authed.POST("/logout", h.logout)
	authed.POST("/refresh", h.refresh)

	authed.GET("/cards", h.listAllCards)
	authed.POST("/cards", h.createCard)
	authed.PATCH("/cards/:id", h.updateCard)
	authed.DELETE("/cards/:id", h.deleteCard)
	authed.POST("/cards/:id/toggle", h.toggleCard)
	authed.POST("/cards/:id/move", h.moveCard)

	authed.PATCH("/settings/:section", h.updateSection)
	authed.POST("/upload", h.upload)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

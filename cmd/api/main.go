package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menuscan/internal/app"
	"menuscan/internal/auth"
	"menuscan/internal/config"
	"menuscan/internal/extraction"
	"menuscan/internal/logging"
	"menuscan/internal/router"
	"menuscan/internal/scan"
	"menuscan/internal/search"

	"github.com/gin-gonic/gin"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.AppEnv)
	slog.SetDefault(logger)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── STORE + PROVIDERS ─────────────────────────
	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Error("auth init failed", "error", err)
		os.Exit(1)
	}

	// ───────────────────────── SERVICES ─────────────────────────
	scanService := scan.NewService(deps.Repo, deps.Images, logger)
	searchService := search.NewService(deps.Repo, logger)
	pipeline := extraction.NewPipeline(deps.OCR, deps.Model, scanService, app.PipelineOptions(cfg), logger)

	// ───────────────────────── HTTP ─────────────────────────
	r := router.NewRouter(router.Deps{
		Extraction:  extraction.NewHandler(pipeline, cfg.MaxUploadBytes),
		Search:      search.NewHandler(searchService),
		Scans:       scan.NewHandler(scanService),
		Tokens:      tokens,
		CORSOrigins: cfg.CORSOrigins,
	})

	// ───────────────────────── START ─────────────────────────
	if err := app.Serve(ctx, ":"+cfg.Port, r, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

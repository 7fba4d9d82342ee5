package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/star/scopealign/internal/align"
	"github.com/star/scopealign/internal/api"
	"github.com/star/scopealign/internal/auth"
	"github.com/star/scopealign/internal/config"
	"github.com/star/scopealign/internal/rebuild"
	"github.com/star/scopealign/internal/syncdb"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store := syncdb.NewStore()

	pos, hint, ok, err := config.LoadSite(cfg.SiteFile)
	if err != nil {
		logger.Error("invalid site file", "error", err)
		os.Exit(1)
	}
	if ok {
		store.SetReferencePosition(pos)
		logger.Info("site loaded", "file", cfg.SiteFile, "alignment_hint", hint.String())
	} else {
		logger.Info("no site file found, waiting for a reference position via the API", "file", cfg.SiteFile)
	}

	engine := align.NewEngine(logger)
	engine.SetApproximateMountAlignment(hint)

	watcher := rebuild.NewWatcher(engine, store, cfg.RebuildInterval, logger)
	if ok {
		if err := watcher.TriggerRebuild(); err != nil {
			logger.Warn("initial build failed", "error", err)
		}
	}

	authCfg := auth.Config{Enabled: cfg.AuthEnabled, Token: cfg.AuthToken}
	srv := api.NewServer(cfg.HTTPAddr, logger, authCfg, engine, store, watcher, cfg.TrustProxy)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go watcher.Run(ctx)

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "auth_enabled", authCfg.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

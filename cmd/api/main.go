// Package main is the entry point for the Shengxiao API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/shengxiao-api/internal/api"
	"github.com/zapponejosh/shengxiao-api/internal/config"
	"github.com/zapponejosh/shengxiao-api/internal/database"
	"github.com/zapponejosh/shengxiao-api/internal/festival"
	"github.com/zapponejosh/shengxiao-api/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting shengxiao API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.Bool("store_enabled", cfg.StoreEnabled),
		slog.Bool("live_sources", cfg.LiveSourcesEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("shengxiao API stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var (
		store     api.OverrideStore
		resolvOpt = []festival.Option{
			festival.WithTimeout(cfg.SourceTimeout),
			festival.WithLogger(log),
		}
	)

	if cfg.StoreEnabled {
		db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if _, err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		store = db
		resolvOpt = append(resolvOpt, festival.WithStore(db))
	}

	sources, err := buildSources(cfg)
	if err != nil {
		return err
	}
	resolvOpt = append(resolvOpt, festival.WithSources(sources...))

	resolver := festival.NewResolver(resolvOpt...)
	log.Info("festival resolver ready", slog.Any("sources", resolver.Sources()))

	handlers := api.NewHandlers(resolver, store, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildSources returns the live source chain: the default Timor source
// followed by any configured template URLs. Empty when live lookups are off.
func buildSources(cfg *config.Config) ([]festival.Source, error) {
	if !cfg.LiveSourcesEnabled {
		return nil, nil
	}

	extra, err := festival.ParseTemplateSources(cfg.SourceURLs)
	if err != nil {
		return nil, fmt.Errorf("festival sources: %w", err)
	}

	return append([]festival.Source{festival.TimorSource{}}, extra...), nil
}

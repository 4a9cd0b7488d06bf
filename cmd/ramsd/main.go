package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/generate"
	"github.com/sitewise-labs/ramsgen/internal/hospitals"
	"github.com/sitewise-labs/ramsgen/internal/knowledge"
	"github.com/sitewise-labs/ramsgen/internal/llm/openai"
	"github.com/sitewise-labs/ramsgen/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("ramsd.fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := knowledge.OpenPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := knowledge.NewPostgresStore(pool, logger)

	completer, err := openai.NewClient(openai.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		return err
	}

	orchestrator := generate.NewOrchestrator(completer, store, cfg.LLM.Temperature, logger)

	var cacheOpt []hospitals.Option
	if cfg.Hospitals.CachePath != "" {
		cache, err := hospitals.OpenCache(cfg.Hospitals.CachePath)
		if err != nil {
			// The lookup works without a cache, just slower.
			logger.Warn("ramsd.hospital_cache_unavailable", "path", cfg.Hospitals.CachePath, "error", err)
		} else {
			defer cache.Close()
			cacheOpt = append(cacheOpt, hospitals.WithCache(cache))
		}
	}
	finder := hospitals.NewService(
		&http.Client{Timeout: cfg.Hospitals.Timeout},
		cfg.Hospitals.NHSAPIKey,
		logger,
		cacheOpt...,
	)

	handler := server.New(orchestrator, finder, func(ctx context.Context) error {
		return knowledge.HealthCheck(ctx, pool)
	}, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ramsd.listen", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("ramsd.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Package app assembles configuration, adapters and use cases into a
// runnable importer service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"NewsImporter/internal/classify"
	"NewsImporter/internal/config"
	"NewsImporter/internal/dedupe"
	"NewsImporter/internal/extract"
	"NewsImporter/internal/feed"
	"NewsImporter/internal/infrastructure/assets"
	"NewsImporter/internal/infrastructure/httpapi"
	"NewsImporter/internal/infrastructure/scheduler"
	"NewsImporter/internal/infrastructure/storage"
	"NewsImporter/internal/logging"
	"NewsImporter/internal/ports"
	"NewsImporter/internal/rewrite"
	"NewsImporter/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	scheduler *usecase.Scheduler
	httpSrv   *http.Server
}

// New builds the full import service. The returned application owns the
// database handle and closes it on shutdown.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewPostgresStore(db)

	objectStorage, err := assets.NewMinioStorage(cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	reader := feed.NewReader(nil, classify.New(), baseLogger.With("component", "feed"))
	detector := dedupe.NewDetector(store, dedupe.Options{
		SimilarityThreshold: cfg.Dedupe.SimilarityThreshold,
		CacheSize:           cfg.Dedupe.CacheSize,
		CacheTTL:            cfg.Dedupe.CacheTTLDuration(),
	}, baseLogger.With("component", "dedupe"))
	extractor := extract.New(nil, baseLogger.With("component", "extract"))
	uploader := assets.NewUploader(nil, objectStorage, baseLogger.With("component", "assets"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Feeds:            cfg.FeedSources(),
		Reader:           reader,
		Store:            store,
		Detector:         detector,
		Extractor:        extractor,
		Uploader:         uploader,
		Rewriter:         buildRewriter(cfg, baseLogger),
		FallbackCategory: cfg.Pipeline.FallbackCategory,
		AuthorID:         cfg.Pipeline.AuthorID,
		Logger:           baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.IntervalDuration(), cfg.Scheduler.BootDelayDuration())
	sched := usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))

	api := httpapi.NewServer(sched, baseLogger.With("component", "http"))
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		scheduler: sched,
		httpSrv:   httpSrv,
	}, nil
}

// buildRewriter picks the strategy from config. An llm mode without an
// API key falls back to the template strategy.
func buildRewriter(cfg config.Config, logger *slog.Logger) ports.Rewriter {
	switch cfg.Rewriter.Mode {
	case "none":
		return nil
	case "llm":
		if cfg.OpenAI.APIKey != "" {
			return rewrite.NewLLMRewriter(cfg.OpenAI, logger.With("component", "rewrite"))
		}
		logger.Warn("llm rewriter requested without api key, using template strategy")
	}
	return rewrite.NewTemplateRewriter(cfg.Rewriter.Attribution)
}

// Run starts the scheduler and the HTTP surface, then blocks until the
// context is cancelled and everything has shut down.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.httpSrv.Addr)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		a.shutdown(context.Background())
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.shutdown(shutdownCtx)
	return nil
}

func (a *Application) shutdown(ctx context.Context) {
	if err := a.scheduler.Stop(ctx); err != nil {
		a.logger.Error("scheduler stop", "error", err)
	}
	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("close database", "error", err)
	}
}

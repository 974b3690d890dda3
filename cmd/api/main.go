// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Avisbase catalogue API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the Collections catalogue store.
//  4. Connect to PostgreSQL and run migrations, when configured, for record ids.
//  5. Connect to Redis, when configured, for the title feed.
//  6. Wire the catalogue service, search index and scheduler.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/avisbase/internal/api"
	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/collections"
	"github.com/taibuivan/avisbase/internal/platform/config"
	"github.com/taibuivan/avisbase/internal/platform/constants"
	"github.com/taibuivan/avisbase/internal/platform/metrics"
	"github.com/taibuivan/avisbase/internal/platform/migration"
	pgstore "github.com/taibuivan/avisbase/internal/platform/postgres"
	redisstore "github.com/taibuivan/avisbase/internal/platform/redis"
	"github.com/taibuivan/avisbase/internal/search"
	"github.com/taibuivan/avisbase/internal/sequence"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	log := rawLog.With(slog.String("app", "avisbase"))
	slog.SetDefault(log)

	log.Info("[Avisbase] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "avisbase"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("collections_backend", cfg.CollectionsBackend),
	)

	// Fail fast on misconfigured dependencies.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	health := api.HealthDependencies{}

	// ── 3. Collections ────────────────────────────────────────────────────
	var store collections.Store
	switch cfg.CollectionsBackend {
	case config.BackendMemory:
		log.Warn("collections_in_memory", slog.String("reason", "COLLECTIONS_BACKEND=memory, data is lost on restart"))
		store = collections.NewMemoryStore()
	default:
		httpStore, err := collections.NewHTTPStore(collections.HTTPOptions{
			BaseURL:       cfg.CollectionsURL,
			Timeout:       cfg.CollectionsTimeout,
			RatePerSecond: cfg.CollectionsRateLimit,
			Burst:         cfg.CollectionsBurst,
		}, appMetrics, log)
		must(log, err, "build collections client")
		store = httpStore
	}

	// ── 4. Record ids ─────────────────────────────────────────────────────
	var ids catalogue.IDAllocator
	if cfg.DatabaseURL != "" {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		health.CheckDatabase = func() error { return pgstore.Ping(context.Background(), pool) }
		ids = sequence.NewPostgresAllocator(pool)
	} else {
		log.Warn("id_sequence_in_memory", slog.Int64("seed", cfg.IDSeed))
		ids = sequence.NewMemoryAllocator(cfg.IDSeed)
	}

	// ── 5. Search index and title feed ────────────────────────────────────
	index := search.NewIndex(search.Options{
		RequireReady: cfg.IndexRequireReady,
		PageSize:     cfg.IndexPageSize,
	}, appMetrics, log)
	health.CheckIndex = index.Ready

	var (
		indexer catalogue.TitleIndexer = index
		feed    *search.Feed
	)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		health.CheckCache = func() error { return redisstore.Ping(context.Background(), rdb) }
		feed = search.NewFeed(rdb, log)
		indexer = search.NewBroadcaster(index, feed, log)
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	service := catalogue.NewService(store, ids, indexer, appMetrics, log, catalogue.Options{
		TitleCacheTTL: cfg.TitleCacheTTL,
	})

	scheduler := search.NewScheduler(index, service, feed, search.SchedulerOptions{
		InitialDelay:    cfg.IndexInitialDelay,
		RebuildInterval: cfg.IndexRebuildInterval,
		RefreshInterval: cfg.IndexRefreshInterval,
	}, log)

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Run(appCtx); err != nil {
			log.Error("index_scheduler_stopped", slog.Any("error", err))
		}
	}()

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalogue: catalogue.NewHandler(service, index),
		Index:     search.NewHandler(index, scheduler),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	shutdownErr := server.Shutdown(shutdownTimeout)
	appCancel()
	<-schedulerDone

	if shutdownErr != nil {
		log.Error("shutdown error", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

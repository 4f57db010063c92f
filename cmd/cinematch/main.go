// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/content"
	"github.com/tomtom215/cinematch/internal/recommend/reranking"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.LoggerConfig())
	logging.Info().Str("config", cfg.String()).Msg("Starting Cinematch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, &cfg.Data)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	importCSV(ctx, db, cfg)

	engine, source, err := initEngine(cfg, db)
	if err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	var store *storage.Store
	if cfg.Snapshot.StorePath != "" {
		store, err = storage.NewStore(cfg.Snapshot.StorePath, cfg.Snapshot.RetainVersions)
		if err != nil {
			stop()
			logging.Fatal().Err(err).Str("path", cfg.Snapshot.StorePath).Msg("Failed to open snapshot store")
		}
		logging.Info().
			Str("path", cfg.Snapshot.StorePath).
			Int("retain", cfg.Snapshot.RetainVersions).
			Msg("Snapshot persistence enabled")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	snapshotSvc := services.NewSnapshotService(engine, snapshotStore(store), services.SnapshotServiceConfig{
		RefreshOnStartup: cfg.Snapshot.RefreshOnStartup,
		RefreshInterval:  cfg.Snapshot.RefreshInterval,
		RefreshTimeout:   cfg.Snapshot.RefreshTimeout,
		Features:         featureProvider(cfg),
	}, logging.Logger())
	tree.AddDataService(snapshotSvc)

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           api.NewRouter(newHandler(engine, snapshotSvc, source, store), routerConfig(cfg)),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Snapshot.RefreshTimeout + cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second, logging.Logger()))

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	stop()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Cinematch stopped")
}

// importCSV loads the configured CSV files into DuckDB. A failed import is
// logged; the engine can still restore a persisted snapshot.
func importCSV(ctx context.Context, db *database.DB, cfg *config.Config) {
	if cfg.Data.RatingsPath == "" && cfg.Data.MoviesPath == "" {
		logging.Info().Msg("No CSV paths configured, using existing DuckDB tables")
		return
	}
	result, err := db.ImportCSV(ctx, cfg.Data.RatingsPath, cfg.Data.MoviesPath)
	if err != nil {
		logging.Error().Err(err).
			Str("ratings", cfg.Data.RatingsPath).
			Str("movies", cfg.Data.MoviesPath).
			Msg("CSV import failed")
		return
	}
	logging.Info().
		Int("ratings", result.Ratings).
		Int("movies", result.Movies).
		Dur("duration", result.Duration).
		Msg("CSV import complete")
}

// initEngine builds the engine and its data source. source is the breaker
// when one is configured, so the API can report its state.
func initEngine(cfg *config.Config, db *database.DB) (*recommend.Engine, api.BreakerStater, error) {
	engine, err := recommend.NewEngine(cfg.EngineConfig(), logging.WithComponent("recommend"))
	if err != nil {
		return nil, nil, err
	}
	engine.SetObserver(metrics.EngineObserver{})

	var breaker *database.BreakerProvider
	if cfg.Data.Breaker.Enabled {
		breaker = database.NewBreakerProvider("duckdb", db, cfg.Data.Breaker)
		engine.SetDataProvider(breaker)
	} else {
		engine.SetDataProvider(db)
	}

	if fp := featureProvider(cfg); fp != nil {
		engine.SetFeatureProvider(fp)
	}
	if cfg.Recommend.Diversity.Enabled {
		engine.RegisterReranker(reranking.NewMMR(cfg.Recommend.Diversity.Lambda))
	}

	if breaker == nil {
		return engine, nil, nil
	}
	return engine, breaker, nil
}

func featureProvider(cfg *config.Config) recommend.FeatureProvider {
	if !cfg.Recommend.Features {
		return nil
	}
	return content.NewTFIDF(content.TFIDFConfig{})
}

// snapshotStore avoids handing the service a typed nil interface.
func snapshotStore(store *storage.Store) services.SnapshotStore {
	if store == nil {
		return nil
	}
	return store
}

func newHandler(engine *recommend.Engine, refresher api.Refresher, breaker api.BreakerStater, store *storage.Store) *api.Handler {
	opts := []api.HandlerOption{api.WithRefresher(refresher)}
	if breaker != nil {
		opts = append(opts, api.WithBreaker(breaker))
	}
	if store != nil {
		opts = append(opts, api.WithStore(store))
	}
	return api.NewHandler(engine, opts...)
}

func routerConfig(cfg *config.Config) api.RouterConfig {
	return api.RouterConfig{
		RefreshRateLimit:  cfg.Server.RefreshRateLimit,
		RefreshRateWindow: time.Minute,
		Logger:            logging.WithComponent("api"),
	}
}

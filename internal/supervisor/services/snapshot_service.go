// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// SnapshotEngine is the part of *recommend.Engine the service drives.
type SnapshotEngine interface {
	// Refresh rebuilds the snapshot from the data provider.
	Refresh(ctx context.Context) error

	// Snapshot returns the current snapshot, or nil before the first one.
	Snapshot() *recommend.Snapshot

	// Publish installs a snapshot built elsewhere.
	Publish(snap *recommend.Snapshot) *recommend.Snapshot

	// SeedVersion makes later snapshots number above v.
	SeedVersion(v int64)
}

// SnapshotStore persists snapshots. Satisfied by *storage.Store.
type SnapshotStore interface {
	Save(ctx context.Context, snap *recommend.Snapshot) (*storage.SnapshotMetadata, error)
	Restore(ctx context.Context, version int64, features recommend.FeatureProvider) (*recommend.Snapshot, error)
	LatestVersion() (int64, bool)
}

// SnapshotServiceConfig holds configuration for the snapshot service.
type SnapshotServiceConfig struct {
	// RefreshOnStartup triggers a refresh when the service starts.
	RefreshOnStartup bool

	// RefreshInterval is the time between scheduled refreshes. 0 disables
	// the schedule; manual refreshes still work.
	RefreshInterval time.Duration

	// RefreshTimeout bounds a single refresh.
	// Default: 5m
	RefreshTimeout time.Duration

	// Features rebuilds content features for restored snapshots. May be nil.
	Features recommend.FeatureProvider
}

// SnapshotService keeps the engine snapshot fresh under Suture supervision.
//
// On start it refreshes (when configured) and, if the engine still has no
// snapshot, restores the newest persisted one. Every successful refresh is
// persisted to the store. A nil store disables persistence.
type SnapshotService struct {
	engine    SnapshotEngine
	store     SnapshotStore
	config    SnapshotServiceConfig
	logger    zerolog.Logger
	name      string
	lastSaved atomic.Int64
}

// NewSnapshotService creates a new snapshot service. store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotService(engine SnapshotEngine, store SnapshotStore, cfg SnapshotServiceConfig, logger zerolog.Logger) *SnapshotService {
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 5 * time.Minute
	}
	return &SnapshotService{
		engine: engine,
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "snapshot").Logger(),
		name:   "snapshot-service",
	}
}

// Serve implements the suture.Service interface.
func (s *SnapshotService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Bool("persistence", s.store != nil).
		Msg("snapshot service starting")

	// Versions continue from the previous run so new saves sort after the
	// snapshots already on disk.
	if s.store != nil {
		if v, ok := s.store.LatestVersion(); ok {
			s.engine.SeedVersion(v)
		}
	}

	if s.config.RefreshOnStartup && s.engine.Snapshot() == nil {
		if err := s.RefreshNow(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial refresh failed")
		}
	}
	if s.engine.Snapshot() == nil {
		s.restore(ctx)
	}

	if s.config.RefreshInterval <= 0 {
		s.logger.Info().Msg("scheduled refresh disabled")
		<-ctx.Done()
		s.logger.Info().Msg("snapshot service shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	s.logger.Info().Msg("snapshot service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled refresh triggered")
			if err := s.RefreshNow(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled refresh failed (serving previous snapshot)")
			}
		}
	}
}

// RefreshNow refreshes the engine and persists the result. It returns
// recommend.ErrRefreshInProgress when another refresh is running.
func (s *SnapshotService) RefreshNow(ctx context.Context) error {
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	logger := s.logger.With().Str("correlation_id", logging.CorrelationIDFromContext(ctx)).Logger()

	refreshCtx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Refresh(refreshCtx); err != nil {
		if errors.Is(err, recommend.ErrRefreshInProgress) {
			logger.Debug().Msg("refresh already in progress")
		}
		return err
	}

	snap := s.engine.Snapshot()
	logger.Info().
		Int64("version", snap.Version()).
		Dur("duration", time.Since(start)).
		Msg("snapshot refresh complete")

	s.persist(ctx, logger, snap)
	return nil
}

// persist saves snap unless it is the version already on disk.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (s *SnapshotService) persist(ctx context.Context, logger zerolog.Logger, snap *recommend.Snapshot) {
	if s.store == nil || snap == nil || snap.Version() == s.lastSaved.Load() {
		return
	}

	meta, err := s.store.Save(ctx, snap)
	metrics.RecordSnapshotPersist("save", err)
	if err != nil {
		logger.Error().Err(err).Int64("version", snap.Version()).Msg("failed to persist snapshot")
		return
	}
	s.lastSaved.Store(snap.Version())

	logger.Debug().
		Int64("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Str("checksum", meta.Checksum).
		Msg("snapshot persisted")
}

// restore publishes the newest persisted snapshot, if any.
func (s *SnapshotService) restore(ctx context.Context) {
	if s.store == nil {
		return
	}

	snap, err := s.store.Restore(ctx, 0, s.config.Features)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Info().Msg("no persisted snapshot to restore")
		return
	}
	metrics.RecordSnapshotPersist("restore", err)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to restore persisted snapshot")
		return
	}

	published := s.engine.Publish(snap)
	s.lastSaved.Store(snap.Version())

	s.logger.Info().
		Int64("version", published.Version()).
		Time("built_at", published.BuiltAt()).
		Msg("restored persisted snapshot")
}

// String returns the service name for logging.
func (s *SnapshotService) String() string {
	return s.name
}

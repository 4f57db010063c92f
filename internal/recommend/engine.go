// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinematch/internal/cache"
)

// Note: Apart from internal/cache this package has no dependencies on other
// internal packages. The DataProvider, FeatureProvider and Observer interfaces connect it to
// the database, content and metrics packages.

// Operation names reported to the Observer.
const (
	OpSimilarity   = "similarity"
	OpIndividual   = "recommend_individual"
	OpGroup        = "recommend_group"
	OpProfile      = "profile"
	OpAnalyzeGroup = "analyze_group"
	OpExplain      = "explain"
	OpSimilarItems = "similar_items"
	OpRefresh      = "refresh"
)

// DataProvider supplies the raw data a snapshot is built from.
// This is typically implemented by the database layer.
type DataProvider interface {
	// GetRatings returns every rating observation.
	GetRatings(ctx context.Context) ([]Rating, error)

	// GetItems returns item metadata.
	GetItems(ctx context.Context) ([]Item, error)
}

// Observer receives engine telemetry.
type Observer interface {
	// ObserveOperation is called once per public query.
	ObserveOperation(op string, duration time.Duration, err error)

	// ObserveSnapshot is called whenever a snapshot is published.
	ObserveSnapshot(status Status)

	// ObserveRefresh is called once per Refresh attempt.
	ObserveRefresh(duration time.Duration, err error)
}

// Engine answers recommendation queries against the current snapshot.
// It is safe for concurrent use.
//
// Queries load the snapshot pointer once and never observe a partially
// built snapshot; Refresh builds the replacement off to the side and
// publishes it with a single atomic store.
type Engine struct {
	config *Config
	logger zerolog.Logger

	current   atomic.Pointer[Snapshot]
	version   atomic.Int64
	refreshMu sync.Mutex
	publishMu sync.Mutex
	refreshes atomic.Int64

	dataProvider DataProvider
	features     FeatureProvider
	rerankers    []GroupReranker
	observer     Observer
	mu           sync.RWMutex

	// nil when Cache.NeighborEntries is 0
	nbCache *cache.LRU[neighborKey, []neighbor]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a new recommendation engine with no snapshot.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if n := cfg.Cache.NeighborEntries; n > 0 {
		e.nbCache = cache.NewLRU[neighborKey, []neighbor](n, 0)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// SetDataProvider sets the source used by Refresh.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dataProvider = dp
}

// SetFeatureProvider sets the content feature provider used for new
// snapshots. nil disables content features.
func (e *Engine) SetFeatureProvider(fp FeatureProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.features = fp
	if fp == nil {
		e.logger.Info().Msg("content features disabled")
		return
	}
	e.logger.Info().Str("provider", fp.Name()).Msg("registered feature provider")
}

// SetObserver sets the telemetry observer.
func (e *Engine) SetObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = o
}

// RegisterReranker adds a reranker applied to group results.
func (e *Engine) RegisterReranker(rr GroupReranker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Refresh rebuilds the snapshot from the data provider and publishes it.
// Concurrent calls fail fast with ErrRefreshInProgress.
func (e *Engine) Refresh(ctx context.Context) (err error) {
	if !e.refreshMu.TryLock() {
		if o := e.getObserver(); o != nil {
			o.ObserveRefresh(0, ErrRefreshInProgress)
		}
		return ErrRefreshInProgress
	}
	defer e.refreshMu.Unlock()

	start := time.Now()
	defer func() {
		if o := e.getObserver(); o != nil {
			o.ObserveRefresh(time.Since(start), err)
		}
	}()

	e.mu.RLock()
	dp := e.dataProvider
	e.mu.RUnlock()
	if dp == nil {
		return fmt.Errorf("refresh: no data provider configured")
	}

	var ratings []Rating
	var items []Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ratings, err = dp.GetRatings(gctx)
		if err != nil {
			return fmt.Errorf("get ratings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = dp.GetItems(gctx)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Warn().Err(err).Msg("snapshot refresh failed")
		return fmt.Errorf("refresh: %w", err)
	}

	if _, err := e.load(ratings, items, "provider"); err != nil {
		e.logger.Warn().Err(err).Msg("snapshot build failed")
		return fmt.Errorf("refresh: %w", err)
	}

	e.logger.Info().
		Int("ratings", len(ratings)).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("snapshot refreshed")
	return nil
}

// Load builds a snapshot from in-memory data and publishes it.
func (e *Engine) Load(ratings []Rating, items []Item) (*Snapshot, error) {
	return e.load(ratings, items, "memory")
}

func (e *Engine) load(ratings []Rating, items []Item, source string) (*Snapshot, error) {
	e.mu.RLock()
	fp := e.features
	e.mu.RUnlock()

	snap, err := NewSnapshot(ratings, items, SnapshotOptions{
		Version:  e.version.Load() + 1,
		Source:   source,
		Features: fp,
	})
	if err != nil {
		return nil, err
	}
	return e.Publish(snap), nil
}

// SeedVersion raises the version counter so the next built snapshot is
// numbered above v. Before any snapshot is published, a snapshot numbered
// exactly v keeps that number. Values at or below the counter are ignored.
func (e *Engine) SeedVersion(v int64) {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()
	if v > e.version.Load() {
		e.version.Store(v)
		e.logger.Debug().Int64("version", v).Msg("snapshot version seeded")
	}
}

// Publish makes snap the current snapshot and returns the published copy.
// The copy is renumbered when needed so versions stay monotonic.
func (e *Engine) Publish(snap *Snapshot) *Snapshot {
	e.publishMu.Lock()
	published := *snap
	// A seeded counter equal to snap's version means snap is the persisted
	// snapshot the seed came from, so it keeps its number.
	cur := e.version.Load()
	if published.version < cur || (published.version == cur && e.current.Load() != nil) {
		published.version = cur + 1
	}
	e.version.Store(published.version)
	e.current.Store(&published)
	e.refreshes.Add(1)
	e.publishMu.Unlock()

	if e.nbCache != nil {
		v := published.version
		if n := e.nbCache.RemoveFunc(func(k neighborKey) bool { return k.version < v }); n > 0 {
			e.logger.Debug().Int("entries", n).Msg("dropped stale neighbor cache entries")
		}
	}

	status := e.Status()
	e.logger.Debug().
		Int64("version", status.Version).
		Int("users", status.Users).
		Int("items", status.Items).
		Int("ratings", status.Ratings).
		Str("source", status.Source).
		Msg("snapshot published")

	if o := e.getObserver(); o != nil {
		o.ObserveSnapshot(status)
	}
	return &published
}

// Snapshot returns the current snapshot, or nil before the first load.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Status reports the current snapshot.
func (e *Engine) Status() Status {
	snap := e.current.Load()
	if snap == nil {
		return Status{Refreshes: e.refreshes.Load()}
	}
	return Status{
		Ready:     true,
		Version:   snap.version,
		Users:     snap.matrix.NumUsers(),
		Items:     len(snap.itemIDs),
		Ratings:   snap.matrix.NumRatings(),
		BuiltAt:   snap.builtAt,
		Source:    snap.source,
		Refreshes: e.refreshes.Load(),
	}
}

// Stats returns request and error counters.
func (e *Engine) Stats() (requests, errors int64) {
	return e.requestCount.Load(), e.errorCount.Load()
}

// Similarity compares two users over their co-rated items.
func (e *Engine) Similarity(ctx context.Context, userA, userB int) (*SimilarityReport, error) {
	var rep *SimilarityReport
	err := e.run(ctx, OpSimilarity, func(s *scorer) error {
		var err error
		rep, err = s.similarity(userA, userB)
		return err
	})
	return rep, err
}

// RecommendIndividual returns up to n recommendations for a user.
// n <= 0 selects the configured default; n is capped at the configured maximum.
func (e *Engine) RecommendIndividual(ctx context.Context, userID, n int) ([]Recommendation, error) {
	n = e.clampK(n, e.config.Limits.DefaultK)

	var recs []Recommendation
	err := e.run(ctx, OpIndividual, func(s *scorer) error {
		var err error
		recs, err = s.individual(ctx, userID, n)
		return err
	})
	if err == nil {
		e.logger.Debug().Int("user_id", userID).Int("returned", len(recs)).Msg("individual recommendations")
	}
	return recs, err
}

// RecommendGroup returns up to n joint recommendations for a group.
// An empty strategy selects the configured default. Groups with fewer than
// two members, or where any member has no recommendations, yield an empty
// result rather than an error.
func (e *Engine) RecommendGroup(ctx context.Context, users []int, strategy Strategy, n int) ([]JointRecommendation, error) {
	if strategy == "" {
		strategy = e.config.Group.DefaultStrategy
	}
	n = e.clampK(n, e.config.Limits.DefaultGroupK)

	var recs []JointRecommendation
	err := e.run(ctx, OpGroup, func(s *scorer) error {
		all, err := s.group(ctx, users, strategy)
		if err != nil {
			return err
		}
		recs = e.rerank(s.snap, all, n)
		return nil
	})
	if err == nil {
		e.logger.Debug().
			Ints("users", users).
			Str("strategy", strategy.String()).
			Int("returned", len(recs)).
			Msg("group recommendations")
	}
	return recs, err
}

// rerank applies registered rerankers, or truncates when there are none.
func (e *Engine) rerank(snap *Snapshot, recs []JointRecommendation, n int) []JointRecommendation {
	e.mu.RLock()
	rerankers := e.rerankers
	e.mu.RUnlock()

	if len(rerankers) == 0 {
		return truncateJoint(recs, n)
	}
	for _, rr := range rerankers {
		recs = rr.Rerank(recs, snap.features, n)
	}
	return truncateJoint(recs, n)
}

// Profile summarizes a user's rating history.
func (e *Engine) Profile(ctx context.Context, userID int) (*UserProfile, error) {
	var p *UserProfile
	err := e.run(ctx, OpProfile, func(s *scorer) error {
		var err error
		p, err = s.profile(userID)
		return err
	})
	return p, err
}

// AnalyzeGroup compares the tastes of a group and suggests a strategy.
func (e *Engine) AnalyzeGroup(ctx context.Context, users []int) (*GroupAnalysis, error) {
	var a *GroupAnalysis
	err := e.run(ctx, OpAnalyzeGroup, func(s *scorer) error {
		var err error
		a, err = s.analyzeGroup(users)
		return err
	})
	return a, err
}

// Explain details why an item suits each member of a group.
func (e *Engine) Explain(ctx context.Context, itemID int, users []int) (*Explanation, error) {
	var ex *Explanation
	err := e.run(ctx, OpExplain, func(s *scorer) error {
		var err error
		ex, err = s.explain(ctx, itemID, users)
		return err
	})
	return ex, err
}

// SimilarItems returns up to k items most similar by content features.
func (e *Engine) SimilarItems(ctx context.Context, itemID, k int) ([]ItemSimilarity, error) {
	k = e.clampK(k, e.config.Limits.DefaultK)

	var out []ItemSimilarity
	err := e.run(ctx, OpSimilarItems, func(s *scorer) error {
		var err error
		out, err = s.similarItems(itemID, k)
		return err
	})
	return out, err
}

// run executes fn against the current snapshot and reports telemetry.
func (e *Engine) run(ctx context.Context, op string, fn func(*scorer) error) error {
	start := time.Now()
	e.requestCount.Add(1)

	err := ctx.Err()
	if err == nil {
		snap := e.current.Load()
		if snap == nil {
			err = ErrNoSnapshot
		} else {
			err = fn(&scorer{snap: snap, cfg: e.config, nbCache: e.nbCache})
		}
	}

	if err != nil {
		e.errorCount.Add(1)
		e.logger.Debug().Err(err).Str("operation", op).Str("kind", ErrorKind(err)).Msg("operation failed")
	}
	if o := e.getObserver(); o != nil {
		o.ObserveOperation(op, time.Since(start), err)
	}
	return err
}

func (e *Engine) clampK(n, def int) int {
	if n <= 0 {
		n = def
	}
	if n > e.config.Limits.MaxK {
		n = e.config.Limits.MaxK
	}
	return n
}

func (e *Engine) getObserver() Observer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.observer
}

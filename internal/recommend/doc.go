// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements movie recommendations for individuals and groups.
//
// # Architecture
//
// Data flows one way through the package:
//
//   - Rating store: raw (user, item, rating, timestamp) observations plus item metadata
//   - Interaction matrix: sparse user x item ratings with explicit presence
//   - Similarity: cosine, Pearson and compatibility over co-rated items
//   - Individual: top-K neighbor voting on highly rated unseen items
//   - Group: intersection, weighted, least-misery and hybrid aggregation
//   - Profiles and explanations: genre affinities, activity, group analysis
//
// The store and matrix together form an immutable Snapshot. The Engine holds
// the current snapshot behind an atomic pointer; every query runs against
// exactly one snapshot, so a refresh never produces a torn read.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetDataProvider(db)
//	if err := engine.Refresh(ctx); err != nil {
//	    return err
//	}
//
//	recs, err := engine.RecommendGroup(ctx, []int{1, 2}, recommend.StrategyHybrid, 15)
//
// # Errors
//
// Failures wrap the sentinel errors in errors.go (ErrUserNotFound,
// ErrInsufficientOverlap, ...) and are matched with errors.Is. A group with
// fewer than two members, or with a member who has no recommendations, is not
// an error: RecommendGroup returns an empty slice.
//
// # Thread Safety
//
// The engine is safe for concurrent use. Queries only read the snapshot;
// Refresh is serialized and publishes a new snapshot with a single atomic
// store. Neighbor lists are memoized per snapshot version in an LRU
// (Config.Cache) that is purged of older versions on publish.
package recommend

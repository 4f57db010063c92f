// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Scale is the valid rating range.
	Scale ScaleConfig `json:"scale"`

	// Neighborhood contains parameters for individual prediction.
	Neighborhood NeighborhoodConfig `json:"neighborhood"`

	// Similarity contains parameters for pairwise user comparison.
	Similarity SimilarityConfig `json:"similarity"`

	// Group contains parameters for group aggregation.
	Group GroupConfig `json:"group"`

	// Profile contains parameters for user profiles.
	Profile ProfileConfig `json:"profile"`

	// Diversity contains parameters for optional diversity reranking of group results.
	Diversity DiversityConfig `json:"diversity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains query memoization parameters.
	Cache CacheConfig `json:"cache"`
}

// ScaleConfig bounds rating values.
type ScaleConfig struct {
	// Min is the lowest valid rating.
	// Default: 0.5
	Min float64 `json:"min"`

	// Max is the highest valid rating.
	// Default: 5.0
	Max float64 `json:"max"`
}

// Span returns the normalization span used by the compatibility score.
// On the default scale this is 4.0, the width of a 1-5 star range.
func (s ScaleConfig) Span() float64 {
	return s.Max - 1.0
}

// NeighborhoodConfig contains user-based collaborative filtering parameters.
type NeighborhoodConfig struct {
	// Size is the number of nearest neighbors consulted.
	// Default: 50
	Size int `json:"size"`

	// LikeThreshold is the minimum neighbor rating counted as a vote.
	// Default: 4.0
	LikeThreshold float64 `json:"like_threshold"`

	// MinSupport is the minimum number of voting neighbors per item.
	// Default: 3
	MinSupport int `json:"min_support"`
}

// SimilarityConfig contains pairwise similarity parameters.
type SimilarityConfig struct {
	// MinCoRated is the minimum number of co-rated items for a report.
	// Default: 5
	MinCoRated int `json:"min_co_rated"`
}

// GroupConfig contains group aggregation parameters.
type GroupConfig struct {
	// CandidatePool is the length of each member's individual list.
	// Default: 50
	CandidatePool int `json:"candidate_pool"`

	// NeutralFill is the score assumed for a member with no prediction.
	// Default: 2.5
	NeutralFill float64 `json:"neutral_fill"`

	// JointFloor is the minimum joint score for weighted and least-misery results.
	// Default: 3.5
	JointFloor float64 `json:"joint_floor"`

	// HybridBoost multiplies intersection scores in the hybrid strategy.
	// Default: 1.2
	HybridBoost float64 `json:"hybrid_boost"`

	// DefaultStrategy is used when a caller does not name one.
	// Default: hybrid
	DefaultStrategy Strategy `json:"default_strategy"`
}

// ProfileConfig contains user profile parameters.
type ProfileConfig struct {
	// GenreMinRatings is the minimum ratings for a genre affinity.
	// Default: 3
	GenreMinRatings int `json:"genre_min_ratings"`

	// MaxGenres is the number of favorite genres kept.
	// Default: 5
	MaxGenres int `json:"max_genres"`

	// ActivityBuckets is the number of hour and weekday buckets kept.
	// Default: 3
	ActivityBuckets int `json:"activity_buckets"`

	// TopItems is the number of top rated items kept.
	// Default: 10
	TopItems int `json:"top_items"`
}

// DiversityConfig contains MMR reranking parameters.
type DiversityConfig struct {
	// Enabled turns on reranking of group results.
	// Default: false
	Enabled bool `json:"enabled"`

	// Lambda balances relevance (1.0) against diversity (0.0).
	// Default: 0.7
	Lambda float64 `json:"lambda"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the individual result count when a caller passes zero.
	// Default: 20
	DefaultK int `json:"default_k"`

	// DefaultGroupK is the group result count when a caller passes zero.
	// Default: 15
	DefaultGroupK int `json:"default_group_k"`

	// MaxK caps any requested result count.
	// Default: 500
	MaxK int `json:"max_k"`

	// ExplainDepth is the individual list length searched by Explain.
	// Default: 100
	ExplainDepth int `json:"explain_depth"`
}

// CacheConfig contains memoization parameters.
type CacheConfig struct {
	// NeighborEntries is the number of per-user neighbor lists kept for the
	// current snapshot. 0 disables the cache.
	// Default: 10000
	NeighborEntries int `json:"neighbor_entries"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scale: ScaleConfig{
			Min: 0.5,
			Max: 5.0,
		},
		Neighborhood: NeighborhoodConfig{
			Size:          50,
			LikeThreshold: 4.0,
			MinSupport:    3,
		},
		Similarity: SimilarityConfig{
			MinCoRated: 5,
		},
		Group: GroupConfig{
			CandidatePool:   50,
			NeutralFill:     2.5,
			JointFloor:      3.5,
			HybridBoost:     1.2,
			DefaultStrategy: StrategyHybrid,
		},
		Profile: ProfileConfig{
			GenreMinRatings: 3,
			MaxGenres:       5,
			ActivityBuckets: 3,
			TopItems:        10,
		},
		Diversity: DiversityConfig{
			Enabled: false,
			Lambda:  0.7,
		},
		Limits: LimitsConfig{
			DefaultK:      20,
			DefaultGroupK: 15,
			MaxK:          500,
			ExplainDepth:  100,
		},
		Cache: CacheConfig{
			NeighborEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Scale.Max <= c.Scale.Min {
		return fmt.Errorf("scale.max (%.2f) must be greater than scale.min (%.2f)", c.Scale.Max, c.Scale.Min)
	}
	if c.Scale.Span() <= 0 {
		return fmt.Errorf("scale.max must be greater than 1.0")
	}
	if err := c.validateNeighborhood(); err != nil {
		return err
	}
	if c.Similarity.MinCoRated < 1 {
		return fmt.Errorf("similarity.min_co_rated must be at least 1")
	}
	if err := c.validateGroup(); err != nil {
		return err
	}
	if err := c.validateProfile(); err != nil {
		return err
	}
	if c.Diversity.Lambda < 0 || c.Diversity.Lambda > 1 {
		return fmt.Errorf("diversity.lambda must be in [0, 1]")
	}
	return c.validateLimits()
}

func (c *Config) validateNeighborhood() error {
	n := c.Neighborhood
	if n.Size < 1 {
		return fmt.Errorf("neighborhood.size must be at least 1")
	}
	if n.LikeThreshold < c.Scale.Min || n.LikeThreshold > c.Scale.Max {
		return fmt.Errorf("neighborhood.like_threshold must be within the rating scale")
	}
	if n.MinSupport < 1 {
		return fmt.Errorf("neighborhood.min_support must be at least 1")
	}
	if n.MinSupport > n.Size {
		return fmt.Errorf("neighborhood.min_support (%d) cannot exceed neighborhood.size (%d)", n.MinSupport, n.Size)
	}
	return nil
}

func (c *Config) validateGroup() error {
	g := c.Group
	if g.CandidatePool < 1 {
		return fmt.Errorf("group.candidate_pool must be at least 1")
	}
	if g.NeutralFill < 0 || g.NeutralFill > c.Scale.Max {
		return fmt.Errorf("group.neutral_fill must be in [0, scale.max]")
	}
	if g.JointFloor < 0 {
		return fmt.Errorf("group.joint_floor must be non-negative")
	}
	if g.HybridBoost < 1 {
		return fmt.Errorf("group.hybrid_boost must be at least 1.0")
	}
	if _, err := ParseStrategy(string(g.DefaultStrategy)); err != nil {
		return fmt.Errorf("group.default_strategy: %w", err)
	}
	return nil
}

func (c *Config) validateProfile() error {
	p := c.Profile
	if p.GenreMinRatings < 1 {
		return fmt.Errorf("profile.genre_min_ratings must be at least 1")
	}
	if p.MaxGenres < 1 || p.ActivityBuckets < 1 || p.TopItems < 1 {
		return fmt.Errorf("profile.max_genres, profile.activity_buckets and profile.top_items must be positive")
	}
	return nil
}

func (c *Config) validateLimits() error {
	l := c.Limits
	if l.MaxK < 1 {
		return fmt.Errorf("limits.max_k must be at least 1")
	}
	if l.DefaultK < 1 || l.DefaultK > l.MaxK {
		return fmt.Errorf("limits.default_k must be in [1, limits.max_k]")
	}
	if l.DefaultGroupK < 1 || l.DefaultGroupK > l.MaxK {
		return fmt.Errorf("limits.default_group_k must be in [1, limits.max_k]")
	}
	if l.ExplainDepth < 1 {
		return fmt.Errorf("limits.explain_depth must be at least 1")
	}
	if c.Cache.NeighborEntries < 0 {
		return fmt.Errorf("cache.neighbor_entries must be non-negative")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}

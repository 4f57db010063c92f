// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/validation"
)

// Validate checks struct-tag rules first, then the cross-field rules that
// tags cannot express, then the engine's own configuration checks.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSnapshot(); err != nil {
		return err
	}

	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return nil
}

// validateData requires the two CSV paths together.
func (c *Config) validateData() error {
	d := c.Data
	if (d.RatingsPath == "") != (d.MoviesPath == "") {
		return fmt.Errorf("data.ratings_path and data.movies_path must be set together")
	}
	if d.RatingsPath == "" && d.DuckDBPath == ":memory:" {
		return fmt.Errorf("data.ratings_path is required with an in-memory database")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.ScaleMax <= r.ScaleMin {
		return fmt.Errorf("recommend.scale_max (%.2f) must be greater than recommend.scale_min (%.2f)", r.ScaleMax, r.ScaleMin)
	}
	if r.LikeThreshold < r.ScaleMin || r.LikeThreshold > r.ScaleMax {
		return fmt.Errorf("recommend.like_threshold (%.2f) must be within the rating scale [%.2f, %.2f]",
			r.LikeThreshold, r.ScaleMin, r.ScaleMax)
	}
	if r.MinSupport > r.Neighbors {
		return fmt.Errorf("recommend.min_support (%d) cannot exceed recommend.neighbors (%d)", r.MinSupport, r.Neighbors)
	}
	if r.DefaultK > r.MaxK || r.DefaultGroupK > r.MaxK {
		return fmt.Errorf("recommend.default_k and recommend.default_group_k cannot exceed recommend.max_k (%d)", r.MaxK)
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	s := c.Snapshot
	if s.RefreshInterval > 0 && s.RefreshInterval < time.Minute {
		return fmt.Errorf("snapshot.refresh_interval must be 0 (disabled) or at least 1m, got %s", s.RefreshInterval)
	}
	if s.RefreshTimeout > s.RefreshInterval && s.RefreshInterval > 0 {
		return fmt.Errorf("snapshot.refresh_timeout (%s) cannot exceed snapshot.refresh_interval (%s)", s.RefreshTimeout, s.RefreshInterval)
	}
	return nil
}

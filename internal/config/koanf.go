// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the locations searched for a config file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar names a config file explicitly.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. The recommend section mirrors
// recommend.DefaultConfig.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			DuckDBPath:     ":memory:",
			RatingsPath:    "",
			MoviesPath:     "",
			GenreDelimiter: "|",
			MaxMemory:      "1GB",
			Threads:        0, // 0 = DuckDB default
			QueryTimeout:   2 * time.Minute,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				OpenTimeout: 30 * time.Second,
			},
		},
		Recommend: RecommendConfig{
			ScaleMin:        0.5,
			ScaleMax:        5.0,
			Neighbors:       50,
			LikeThreshold:   4.0,
			MinSupport:      3,
			MinCoRated:      5,
			CandidatePool:   50,
			NeutralFill:     2.5,
			JointFloor:      3.5,
			HybridBoost:     1.2,
			DefaultStrategy: "hybrid",
			ExplainDepth:    100,
			DefaultK:        20,
			DefaultGroupK:   15,
			MaxK:            500,
			NeighborCache:   10000,
			Features:        true,
			Diversity: DiversityConfig{
				Enabled: false, // Opt-in: reorders strategy output
				Lambda:  0.7,
			},
		},
		Snapshot: SnapshotConfig{
			RefreshInterval:  time.Hour,
			RefreshOnStartup: true,
			StorePath:        "", // Persistence disabled
			RetainVersions:   3,
			RefreshTimeout:   5 * time.Minute,
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			Timeout:          30 * time.Second,
			RefreshRateLimit: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Config file (if found)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names to config paths.
// Unmapped variables are ignored so the process environment cannot pollute
// the configuration.
var envMappings = map[string]string{
	// Data source
	"duckdb_path":               "data.duckdb_path",
	"duckdb_max_memory":         "data.max_memory",
	"duckdb_threads":            "data.threads",
	"data_ratings_path":         "data.ratings_path",
	"data_movies_path":          "data.movies_path",
	"data_genre_delimiter":      "data.genre_delimiter",
	"data_query_timeout":        "data.query_timeout",
	"data_breaker_enabled":      "data.breaker.enabled",
	"data_breaker_max_failures": "data.breaker.max_failures",
	"data_breaker_open_timeout": "data.breaker.open_timeout",

	// Recommendation engine
	"recommend_scale_min":         "recommend.scale_min",
	"recommend_scale_max":         "recommend.scale_max",
	"recommend_neighbors":         "recommend.neighbors",
	"recommend_like_threshold":    "recommend.like_threshold",
	"recommend_min_support":       "recommend.min_support",
	"recommend_min_co_rated":      "recommend.min_co_rated",
	"recommend_candidate_pool":    "recommend.candidate_pool",
	"recommend_neutral_fill":      "recommend.neutral_fill",
	"recommend_joint_floor":       "recommend.joint_floor",
	"recommend_hybrid_boost":      "recommend.hybrid_boost",
	"recommend_default_strategy":  "recommend.default_strategy",
	"recommend_explain_depth":     "recommend.explain_depth",
	"recommend_default_k":         "recommend.default_k",
	"recommend_default_group_k":   "recommend.default_group_k",
	"recommend_max_k":             "recommend.max_k",
	"recommend_neighbor_cache":    "recommend.neighbor_cache",
	"recommend_features":          "recommend.features",
	"recommend_diversity_enabled": "recommend.diversity.enabled",
	"recommend_diversity_lambda":  "recommend.diversity.lambda",

	// Snapshot lifecycle
	"snapshot_refresh_interval":   "snapshot.refresh_interval",
	"snapshot_refresh_on_startup": "snapshot.refresh_on_startup",
	"snapshot_store_path":         "snapshot.store_path",
	"snapshot_retain_versions":    "snapshot.retain_versions",
	"snapshot_refresh_timeout":    "snapshot.refresh_timeout",

	// Server
	"http_host":               "server.host",
	"http_port":               "server.port",
	"http_timeout":            "server.timeout",
	"http_refresh_rate_limit": "server.refresh_rate_limit",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> data.duckdb_path
//   - RECOMMEND_NEIGHBORS -> recommend.neighbors
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

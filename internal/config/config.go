// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger)
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Snapshot  SnapshotConfig  `koanf:"snapshot"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig holds the DuckDB rating source settings.
//
// Environment Variables:
//   - DUCKDB_PATH: database file, or ":memory:" (default: :memory:)
//   - DATA_RATINGS_PATH: ratings CSV (userId,movieId,rating,timestamp)
//   - DATA_MOVIES_PATH: movies CSV (movieId,title,genres)
//   - DATA_GENRE_DELIMITER: genre separator in the movies CSV (default: |)
type DataConfig struct {
	DuckDBPath     string `koanf:"duckdb_path" validate:"required"`
	RatingsPath    string `koanf:"ratings_path"`
	MoviesPath     string `koanf:"movies_path"`
	GenreDelimiter string `koanf:"genre_delimiter" validate:"required,max=4"`

	// MaxMemory is passed to DuckDB's memory_limit setting (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is DuckDB's worker thread count. 0 lets DuckDB decide.
	Threads int `koanf:"threads" validate:"min=0,max=256"`

	// QueryTimeout bounds each load query.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the data source.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32 `koanf:"max_failures" validate:"min=1,max=100"`

	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration `koanf:"open_timeout" validate:"gt=0"`
}

// RecommendConfig holds recommendation engine tuning.
//
// Environment Variables use the RECOMMEND_ prefix, e.g. RECOMMEND_NEIGHBORS,
// RECOMMEND_LIKE_THRESHOLD, RECOMMEND_DEFAULT_STRATEGY.
type RecommendConfig struct {
	ScaleMin float64 `koanf:"scale_min" validate:"gte=0"`
	ScaleMax float64 `koanf:"scale_max" validate:"gt=1,lte=100"`

	Neighbors     int     `koanf:"neighbors" validate:"min=1,max=10000"`
	LikeThreshold float64 `koanf:"like_threshold" validate:"gte=0"`
	MinSupport    int     `koanf:"min_support" validate:"min=1"`
	MinCoRated    int     `koanf:"min_co_rated" validate:"min=1"`

	CandidatePool   int     `koanf:"candidate_pool" validate:"min=1,max=10000"`
	NeutralFill     float64 `koanf:"neutral_fill" validate:"gte=0"`
	JointFloor      float64 `koanf:"joint_floor" validate:"gte=0"`
	HybridBoost     float64 `koanf:"hybrid_boost" validate:"gte=1"`
	DefaultStrategy string  `koanf:"default_strategy" validate:"required,strategy"`

	ExplainDepth  int `koanf:"explain_depth" validate:"min=1,max=10000"`
	DefaultK      int `koanf:"default_k" validate:"min=1"`
	DefaultGroupK int `koanf:"default_group_k" validate:"min=1"`
	MaxK          int `koanf:"max_k" validate:"min=1,max=10000"`

	// NeighborCache is the number of per-user neighbor lists memoized for
	// the current snapshot. 0 disables the cache.
	NeighborCache int `koanf:"neighbor_cache" validate:"min=0,max=10000000"`

	// Features enables TF-IDF content features (genres and decade).
	Features bool `koanf:"features"`

	Diversity DiversityConfig `koanf:"diversity"`
}

// DiversityConfig controls MMR reranking of group results.
type DiversityConfig struct {
	Enabled bool    `koanf:"enabled"`
	Lambda  float64 `koanf:"lambda" validate:"gte=0,lte=1"`
}

// SnapshotConfig controls snapshot refresh and persistence.
//
// Environment Variables:
//   - SNAPSHOT_REFRESH_INTERVAL: time between refreshes, 0 disables (default: 1h)
//   - SNAPSHOT_REFRESH_ON_STARTUP: refresh when the service starts (default: true)
//   - SNAPSHOT_STORE_PATH: directory for persisted snapshots, empty disables
//   - SNAPSHOT_RETAIN_VERSIONS: persisted versions kept, 0 keeps all (default: 3)
//   - SNAPSHOT_REFRESH_TIMEOUT: bound on one refresh (default: 5m)
type SnapshotConfig struct {
	RefreshInterval  time.Duration `koanf:"refresh_interval" validate:"gte=0"`
	RefreshOnStartup bool          `koanf:"refresh_on_startup"`
	StorePath        string        `koanf:"store_path"`
	RetainVersions   int           `koanf:"retain_versions" validate:"min=0,max=1000"`
	RefreshTimeout   time.Duration `koanf:"refresh_timeout" validate:"gt=0"`
}

// ServerConfig holds the ops HTTP listener settings.
//
// Environment Variables:
//   - HTTP_HOST (default: 0.0.0.0)
//   - HTTP_PORT (default: 8080)
//   - HTTP_TIMEOUT (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RefreshRateLimit is the number of manual refreshes allowed per minute.
	RefreshRateLimit int `koanf:"refresh_rate_limit" validate:"min=1,max=1000"`
}

// Address returns host:port for the listener.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// LoggerConfig converts the section for logging.Init.
func (l LoggingConfig) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// EngineConfig maps the recommend section onto the engine configuration.
// Settings without a config key keep the engine defaults.
func (c *Config) EngineConfig() *recommend.Config {
	r := c.Recommend
	cfg := recommend.DefaultConfig()

	cfg.Scale.Min = r.ScaleMin
	cfg.Scale.Max = r.ScaleMax
	cfg.Neighborhood.Size = r.Neighbors
	cfg.Neighborhood.LikeThreshold = r.LikeThreshold
	cfg.Neighborhood.MinSupport = r.MinSupport
	cfg.Similarity.MinCoRated = r.MinCoRated
	cfg.Group.CandidatePool = r.CandidatePool
	cfg.Group.NeutralFill = r.NeutralFill
	cfg.Group.JointFloor = r.JointFloor
	cfg.Group.HybridBoost = r.HybridBoost
	if s, err := recommend.ParseStrategy(r.DefaultStrategy); err == nil {
		cfg.Group.DefaultStrategy = s
	}
	cfg.Diversity.Enabled = r.Diversity.Enabled
	cfg.Diversity.Lambda = r.Diversity.Lambda
	cfg.Limits.DefaultK = r.DefaultK
	cfg.Limits.DefaultGroupK = r.DefaultGroupK
	cfg.Limits.MaxK = r.MaxK
	cfg.Limits.ExplainDepth = r.ExplainDepth
	cfg.Cache.NeighborEntries = r.NeighborCache

	return cfg
}

// String returns a one-line summary for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("duckdb=%s ratings=%q movies=%q strategy=%s refresh=%s store=%q listen=%s",
		c.Data.DuckDBPath, c.Data.RatingsPath, c.Data.MoviesPath,
		c.Recommend.DefaultStrategy, c.Snapshot.RefreshInterval, c.Snapshot.StorePath,
		c.Server.Address())
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config provides centralized configuration management for Cinematch.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/cinematch/config.yaml or /etc/cinematch/config.yml
 3. Environment variables listed in envMappings

# Sections

  - data: DuckDB path and tuning, MovieLens CSV paths, circuit breaker
  - recommend: rating scale, neighborhood, group aggregation, limits, diversity
  - snapshot: refresh interval and timeout, persistence directory and retention
  - server: ops HTTP listener and manual refresh rate limit
  - logging: level, format, caller

# Example YAML

	data:
	  duckdb_path: /data/cinematch.duckdb
	  ratings_path: /data/ml-latest-small/ratings.csv
	  movies_path: /data/ml-latest-small/movies.csv
	recommend:
	  neighbors: 50
	  default_strategy: hybrid
	  diversity:
	    enabled: true
	    lambda: 0.7
	snapshot:
	  refresh_interval: 1h
	  store_path: /data/snapshots
	logging:
	  level: debug
	  format: console

# Validation

Validate applies go-playground/validator struct tags through the validation
package, then cross-field rules (scale bounds, paired CSV paths, refresh
timing), then recommend.Config.Validate on the derived engine configuration.
*/
package config

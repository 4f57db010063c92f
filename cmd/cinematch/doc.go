// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main runs the Cinematch snapshot service.
//
// The process loads MovieLens-style CSVs into DuckDB, builds the
// recommendation snapshot, keeps it fresh on a schedule and serves ops
// endpoints (health, snapshot status, manual refresh, Prometheus metrics).
//
// # Startup
//
//  1. Configuration: defaults, optional YAML (CONFIG_PATH), environment (Koanf v2)
//  2. Logging: zerolog in json or console format
//  3. DuckDB: open the database and import DATA_RATINGS_PATH / DATA_MOVIES_PATH
//  4. Engine: data provider (optionally behind a circuit breaker), TF-IDF
//     features and MMR diversity when enabled
//  5. Supervisor tree: snapshot service in the data layer, HTTP server in the
//     api layer
//
// When the first refresh fails and SNAPSHOT_STORE_PATH holds a persisted
// snapshot, the newest one is restored and served until a refresh succeeds.
//
// # Example
//
//	export DATA_RATINGS_PATH=./ml-latest-small/ratings.csv
//	export DATA_MOVIES_PATH=./ml-latest-small/movies.csv
//	export SNAPSHOT_STORE_PATH=./snapshots
//	export LOG_FORMAT=console
//	./cinematch
//
//	curl -s localhost:8080/api/v1/snapshot
//	curl -s -X POST localhost:8080/api/v1/snapshot/refresh
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains for up to 10s.
package main

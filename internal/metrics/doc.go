// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package metrics provides Prometheus instrumentation for Cinematch.
//
// All collectors are registered with the default registry through promauto
// and exposed by the ops HTTP server at /metrics.
//
// # Metric Families
//
// Database (DuckDB):
//   - duckdb_query_duration_seconds{operation,table}
//   - duckdb_query_errors_total{operation,table,error_type}
//   - duckdb_rows_loaded_total{table}
//
// Recommendation engine:
//   - recommend_operation_duration_seconds{operation}
//   - recommend_operation_errors_total{operation,kind}
//   - recommend_snapshot_version, _users, _items, _ratings
//   - recommend_snapshot_built_timestamp_seconds
//   - recommend_refresh_total{status}, recommend_refresh_duration_seconds
//   - recommend_refresh_last_success_timestamp
//   - recommend_snapshot_persist_total{operation,status}
//
// Ops API:
//   - api_requests_total{method,endpoint,status_code}
//   - api_request_duration_seconds{method,endpoint}
//   - api_active_requests, api_rate_limit_hits_total{endpoint}
//
// Circuit breaker (data source):
//   - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
//   - circuit_breaker_requests_total{name,result}
//   - circuit_breaker_consecutive_failures{name}
//   - circuit_breaker_state_transitions_total{name,from_state,to_state}
//
// # Engine Integration
//
// EngineObserver implements recommend.Observer and is attached with
// engine.SetObserver(metrics.EngineObserver{}). The error kind label comes
// from recommend.ErrorKind, so cardinality stays bounded.
package metrics

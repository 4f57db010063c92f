// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package database provides the DuckDB-backed rating source for Cinematch.

DuckDB holds two tables, ratings and movies, filled either from MovieLens-style
CSV files (ImportCSV, using read_csv_auto) or from code (InsertRatings,
InsertItems). DB implements recommend.DataProvider, so an engine refresh reads
the whole rating history and catalog in two queries.

# Usage

	db, err := database.Open(ctx, &cfg.Data)
	if err != nil {
	    return err
	}
	defer db.Close()

	if _, err := db.ImportCSV(ctx, cfg.Data.RatingsPath, cfg.Data.MoviesPath); err != nil {
	    return err
	}

	var source recommend.DataProvider = db
	if cfg.Data.Breaker.Enabled {
	    source = database.NewBreakerProvider("duckdb", db, cfg.Data.Breaker)
	}
	engine.SetDataProvider(source)

# Circuit Breaker

BreakerProvider wraps any DataProvider with sony/gobreaker. After
MaxFailures consecutive failures the circuit opens for OpenTimeout and loads
return ErrSourceUnavailable without touching the source. State transitions
are logged and exported as circuit_breaker_* metrics.

# Metrics

Every query records duckdb_query_duration_seconds by operation and table,
and successful loads add to duckdb_rows_loaded_total.

# Thread Safety

DB is safe for concurrent use; database/sql pools the DuckDB connections.
*/
package database

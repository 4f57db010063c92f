// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
database_schema.go - Database Schema Management

Tables:
  - movies: one row per movie (movie_id, title, delimiter-joined genres, year)
  - ratings: one row per rating event; duplicates of (user_id, movie_id) are
    kept and resolved by the interaction matrix builder (latest timestamp wins)

Index Strategy:
Indexes cover the two access paths of a snapshot load: ratings scanned per
user and movies looked up by id.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

const (
	tableRatings = "ratings"
	tableMovies  = "movies"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 60*time.Second)
}

// createTables creates the core database tables and indexes
func (db *DB) createTables(ctx context.Context) error {
	ctx, cancel := schemaContext(ctx)
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			movie_id INTEGER PRIMARY KEY,
			title VARCHAR NOT NULL,
			genres VARCHAR NOT NULL DEFAULT '',
			year INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			rating DOUBLE NOT NULL,
			rated_at BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

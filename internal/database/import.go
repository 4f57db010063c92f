// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Ratings  int           `json:"ratings"`
	Movies   int           `json:"movies"`
	Duration time.Duration `json:"duration"`
}

// ImportCSV replaces the ratings and movies tables with the contents of
// MovieLens-style CSV files:
//
//	ratings.csv: userId,movieId,rating,timestamp
//	movies.csv:  movieId,title,genres
//
// The release year is taken from a trailing "(YYYY)" in the title. Duplicate
// movie ids keep the first row. Both tables are replaced in one transaction.
func (db *DB) ImportCSV(ctx context.Context, ratingsPath, moviesPath string) (*ImportResult, error) {
	for _, p := range []string{ratingsPath, moviesPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("csv file %q: %w", p, err)
		}
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []struct {
		table string
		query string
	}{
		{tableRatings, `DELETE FROM ratings`},
		{tableMovies, `DELETE FROM movies`},
		{tableMovies, fmt.Sprintf(`
			INSERT INTO movies (movie_id, title, genres, year)
			SELECT DISTINCT ON (movie_id) movie_id, title, genres, year
			FROM (
				SELECT
					CAST(movieId AS INTEGER) AS movie_id,
					trim(CAST(title AS VARCHAR)) AS title,
					COALESCE(CAST(genres AS VARCHAR), '') AS genres,
					TRY_CAST(NULLIF(regexp_extract(trim(CAST(title AS VARCHAR)), '\((\d{4})\)$', 1), '') AS INTEGER) AS year
				FROM read_csv_auto(%s, header = true)
				WHERE movieId IS NOT NULL
			)
			ORDER BY movie_id`, quoteLiteral(moviesPath))},
		{tableRatings, fmt.Sprintf(`
			INSERT INTO ratings (user_id, movie_id, rating, rated_at)
			SELECT
				CAST(userId AS INTEGER),
				CAST(movieId AS INTEGER),
				CAST(rating AS DOUBLE),
				COALESCE(CAST("timestamp" AS BIGINT), 0)
			FROM read_csv_auto(%s, header = true)
			WHERE userId IS NOT NULL AND movieId IS NOT NULL AND rating IS NOT NULL`, quoteLiteral(ratingsPath))},
	}

	for _, stmt := range statements {
		qStart := time.Now()
		_, err := tx.ExecContext(ctx, stmt.query)
		metrics.RecordDBQuery("import", stmt.table, time.Since(qStart), err)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", stmt.table, err)
		}
	}

	result := &ImportResult{}
	if err := tx.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM ratings), (SELECT COUNT(*) FROM movies)`).
		Scan(&result.Ratings, &result.Movies); err != nil {
		return nil, fmt.Errorf("count imported rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	result.Duration = time.Since(start)

	logging.Info().
		Str("ratings_path", ratingsPath).
		Str("movies_path", moviesPath).
		Int("ratings", result.Ratings).
		Int("movies", result.Movies).
		Dur("duration", result.Duration).
		Msg("Imported MovieLens CSV files")

	return result, nil
}

// quoteLiteral renders s as a SQL string literal.
// read_csv_auto takes its path as a constant, not a bind parameter.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

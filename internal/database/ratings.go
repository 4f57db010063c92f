// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

var _ recommend.DataProvider = (*DB)(nil)

// GetRatings returns every stored rating event ordered by user, item and time.
func (db *DB) GetRatings(ctx context.Context) (ratings []recommend.Rating, err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select", tableRatings, time.Since(start), err)
		if err == nil {
			metrics.RecordRowsLoaded(tableRatings, len(ratings))
		}
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, movie_id, rating, rated_at
		FROM ratings
		ORDER BY user_id, movie_id, rated_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Value, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return ratings, nil
}

// GetItems returns movie metadata ordered by id. Genres are split on the
// configured delimiter.
func (db *DB) GetItems(ctx context.Context) (items []recommend.Item, err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select", tableMovies, time.Since(start), err)
		if err == nil {
			metrics.RecordRowsLoaded(tableMovies, len(items))
		}
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT movie_id, title, genres, COALESCE(year, 0)
		FROM movies
		ORDER BY movie_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      recommend.Item
			genresStr string
		)
		if err := rows.Scan(&item.ID, &item.Title, &genresStr, &item.Year); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		item.Genres = recommend.ParseGenres(genresStr, db.cfg.GenreDelimiter)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return items, nil
}

// InsertRatings appends rating events in a single transaction.
func (db *DB) InsertRatings(ctx context.Context, ratings []recommend.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	return db.insertBatch(ctx, tableRatings,
		`INSERT INTO ratings (user_id, movie_id, rating, rated_at) VALUES (?, ?, ?, ?)`,
		len(ratings), func(stmt *sql.Stmt, i int) error {
			r := ratings[i]
			_, err := stmt.ExecContext(ctx, r.UserID, r.ItemID, r.Value, r.Timestamp)
			return err
		})
}

// InsertItems upserts movie metadata in a single transaction.
func (db *DB) InsertItems(ctx context.Context, items []recommend.Item) error {
	if len(items) == 0 {
		return nil
	}
	return db.insertBatch(ctx, tableMovies,
		`INSERT OR REPLACE INTO movies (movie_id, title, genres, year) VALUES (?, ?, ?, ?)`,
		len(items), func(stmt *sql.Stmt, i int) error {
			item := items[i]
			var year sql.NullInt64
			if item.Year > 0 {
				year = sql.NullInt64{Int64: int64(item.Year), Valid: true}
			}
			_, err := stmt.ExecContext(ctx, item.ID, item.Title,
				strings.Join(item.Genres, db.cfg.GenreDelimiter), year)
			return err
		})
}

// insertBatch runs exec for rows [0, n) against one prepared statement.
func (db *DB) insertBatch(ctx context.Context, table, query string, n int, exec func(*sql.Stmt, int) error) (err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", table, time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert %s: %w", table, err)
	}
	return nil
}

// Counts returns the number of stored ratings and movies.
func (db *DB) Counts(ctx context.Context) (ratings, movies int, err error) {
	err = db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM ratings), (SELECT COUNT(*) FROM movies)`).
		Scan(&ratings, &movies)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return ratings, movies, nil
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testRatingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,964982703
1,3,4.0,964981247
1,6,4.0,964982224
2,1,5.0,964982931
2,6,3.0,964983815
`

const testMoviesCSV = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
3,"American President, The (1995)",Comedy|Drama|Romance
6,Heat (1995) ,Action|Crime|Thriller
7,Untitled Project,(no genres listed)
7,Untitled Duplicate,Drama
`

func writeCSVs(t *testing.T, ratings, movies string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	ratingsPath := filepath.Join(dir, "ratings.csv")
	moviesPath := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(ratingsPath, []byte(ratings), 0o600); err != nil {
		t.Fatalf("WriteFile(ratings) error = %v", err)
	}
	if err := os.WriteFile(moviesPath, []byte(movies), 0o600); err != nil {
		t.Fatalf("WriteFile(movies) error = %v", err)
	}
	return ratingsPath, moviesPath
}

func TestImportCSV(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ratingsPath, moviesPath := writeCSVs(t, testRatingsCSV, testMoviesCSV)

	result, err := db.ImportCSV(ctx, ratingsPath, moviesPath)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Ratings != 5 {
		t.Errorf("result.Ratings = %d, want 5", result.Ratings)
	}
	if result.Movies != 4 {
		t.Errorf("result.Movies = %d, want 4 (duplicate id dropped)", result.Movies)
	}

	items, err := db.GetItems(ctx)
	if err != nil {
		t.Fatalf("GetItems() error = %v", err)
	}
	byID := make(map[int]int, len(items))
	for i, it := range items {
		byID[it.ID] = i
	}

	tests := []struct {
		id     int
		title  string
		year   int
		genres []string
	}{
		{1, "Toy Story (1995)", 1995, []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}},
		{3, "American President, The (1995)", 1995, []string{"Comedy", "Drama", "Romance"}},
		{6, "Heat (1995)", 1995, []string{"Action", "Crime", "Thriller"}},
		{7, "Untitled Project", 0, nil},
	}
	for _, tt := range tests {
		i, ok := byID[tt.id]
		if !ok {
			t.Errorf("movie %d missing", tt.id)
			continue
		}
		got := items[i]
		if got.Title != tt.title {
			t.Errorf("movie %d title = %q, want %q", tt.id, got.Title, tt.title)
		}
		if got.Year != tt.year {
			t.Errorf("movie %d year = %d, want %d", tt.id, got.Year, tt.year)
		}
		if !reflect.DeepEqual(got.Genres, tt.genres) {
			t.Errorf("movie %d genres = %v, want %v", tt.id, got.Genres, tt.genres)
		}
	}

	ratings, err := db.GetRatings(ctx)
	if err != nil {
		t.Fatalf("GetRatings() error = %v", err)
	}
	if first := ratings[0]; first.UserID != 1 || first.ItemID != 1 || first.Value != 4.0 || first.Timestamp != 964982703 {
		t.Errorf("first rating = %+v", first)
	}
}

func TestImportCSV_ReplacesExistingData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.InsertRatings(ctx, sampleRatings()); err != nil {
		t.Fatalf("InsertRatings() error = %v", err)
	}

	ratingsPath, moviesPath := writeCSVs(t, "userId,movieId,rating,timestamp\n9,1,2.5,1\n", "movieId,title,genres\n1,Solo (2018),Action\n")
	if _, err := db.ImportCSV(ctx, ratingsPath, moviesPath); err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	ratings, movies, err := db.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if ratings != 1 || movies != 1 {
		t.Errorf("Counts() = (%d, %d), want (1, 1)", ratings, movies)
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	ratingsPath, _ := writeCSVs(t, testRatingsCSV, testMoviesCSV)

	if _, err := db.ImportCSV(context.Background(), ratingsPath, "/does/not/exist.csv"); err == nil {
		t.Fatal("ImportCSV() error = nil, want missing file error")
	}
}

func TestImportCSV_MalformedLeavesDataIntact(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.InsertRatings(ctx, sampleRatings()); err != nil {
		t.Fatalf("InsertRatings() error = %v", err)
	}

	// No movieId column
	ratingsPath, moviesPath := writeCSVs(t, testRatingsCSV, "id,name\n1,Foo\n")
	if _, err := db.ImportCSV(ctx, ratingsPath, moviesPath); err == nil {
		t.Fatal("ImportCSV() error = nil, want error for missing columns")
	}

	ratings, _, err := db.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if ratings != len(sampleRatings()) {
		t.Errorf("ratings after failed import = %d, want %d (rolled back)", ratings, len(sampleRatings()))
	}
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/data/ratings.csv", "'/data/ratings.csv'"},
		{"/data/o'brien.csv", "'/data/o''brien.csv'"},
	}
	for _, tt := range tests {
		if got := quoteLiteral(tt.in); got != tt.want {
			t.Errorf("quoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

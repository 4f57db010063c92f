// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

// tinyRatings is the three-user dataset where no pair has enough overlap.
func tinyRatings() ([]Rating, []Item) {
	ratings := []Rating{
		{UserID: 1, ItemID: 101, Value: 5.0, Timestamp: 1000},
		{UserID: 1, ItemID: 102, Value: 4.0, Timestamp: 1001},
		{UserID: 1, ItemID: 103, Value: 3.0, Timestamp: 1002},
		{UserID: 2, ItemID: 101, Value: 4.0, Timestamp: 1003},
		{UserID: 2, ItemID: 104, Value: 5.0, Timestamp: 1004},
		{UserID: 2, ItemID: 105, Value: 3.0, Timestamp: 1005},
		{UserID: 3, ItemID: 102, Value: 4.0, Timestamp: 1006},
		{UserID: 3, ItemID: 103, Value: 5.0, Timestamp: 1007},
		{UserID: 3, ItemID: 106, Value: 4.0, Timestamp: 1008},
	}
	items := []Item{
		{ID: 101, Title: "Toy Story (1995)", Genres: []string{"Animation", "Children", "Comedy"}, Year: 1995},
		{ID: 102, Title: "Jumanji (1995)", Genres: []string{"Adventure", "Children", "Fantasy"}, Year: 1995},
		{ID: 103, Title: "Grumpier Old Men (1995)", Genres: []string{"Comedy", "Romance"}, Year: 1995},
		{ID: 104, Title: "Heat (1995)", Genres: []string{"Action", "Crime", "Thriller"}, Year: 1995},
		{ID: 105, Title: "Sabrina (1995)", Genres: []string{"Comedy", "Romance"}, Year: 1995},
		{ID: 106, Title: "GoldenEye (1995)", Genres: []string{"Action", "Adventure", "Thriller"}, Year: 1995},
	}
	return ratings, items
}

var fixtureGenres = []string{"Action", "Comedy", "Drama", "Sci-Fi", "Romance"}

// communityRatings builds twelve users who share 30 base items. Users 3-12
// also love items 31-34, user 1 has seen 31 and user 2 has seen 32, so the
// couple (1, 2) has overlapping but different candidate lists.
func communityRatings() ([]Rating, []Item) {
	var ratings []Rating
	ts := int64(1_600_000_000)
	add := func(u, i int, v float64) {
		ratings = append(ratings, Rating{UserID: u, ItemID: i, Value: v, Timestamp: ts})
		ts += 3600
	}

	for u := 1; u <= 12; u++ {
		for i := 1; i <= 30; i++ {
			add(u, i, 3+float64((u*7+i*3)%5)*0.5)
		}
	}
	for u := 3; u <= 12; u++ {
		for i := 31; i <= 34; i++ {
			add(u, i, 4+float64((u+i)%3)*0.5)
		}
	}
	add(1, 31, 5)
	add(2, 32, 5)

	items := make([]Item, 0, 34)
	for i := 1; i <= 34; i++ {
		items = append(items, Item{
			ID:     i,
			Title:  "Movie " + string(rune('A'+i%26)),
			Genres: []string{fixtureGenres[i%len(fixtureGenres)], fixtureGenres[(i+2)%len(fixtureGenres)]},
			Year:   1980 + i,
		})
	}
	return ratings, items
}

// newTestScorer builds a scorer over the given data with default config.
func newTestScorer(t *testing.T, ratings []Rating, items []Item) *scorer {
	t.Helper()
	snap, err := NewSnapshot(ratings, items, SnapshotOptions{Version: 1})
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return &scorer{snap: snap, cfg: DefaultConfig()}
}

// newTestEngine builds an engine loaded with the given data.
func newTestEngine(t *testing.T, ratings []Rating, items []Item) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := engine.Load(ratings, items); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return engine
}

// mockDataProvider implements DataProvider for testing.
type mockDataProvider struct {
	ratings    []Rating
	items      []Item
	ratingsErr error
	itemsErr   error

	// entered receives once per GetRatings call when non-nil.
	entered chan struct{}
	// block holds GetRatings until closed when non-nil.
	block chan struct{}
}

func (m *mockDataProvider) GetRatings(ctx context.Context) ([]Rating, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.ratingsErr != nil {
		return nil, m.ratingsErr
	}
	return m.ratings, nil
}

func (m *mockDataProvider) GetItems(ctx context.Context) ([]Item, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items, nil
}

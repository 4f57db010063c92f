// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"reflect"
	"testing"
)

const (
	hour = 3600
	day  = 24 * hour
)

// profileRatings: epoch day 0 is a Thursday. Item 5 has no metadata.
func profileRatings() ([]Rating, []Item) {
	ratings := []Rating{
		{UserID: 1, ItemID: 1, Value: 5, Timestamp: 14 * hour},
		{UserID: 1, ItemID: 2, Value: 4, Timestamp: 14*hour + 60},
		{UserID: 1, ItemID: 3, Value: 3, Timestamp: day + 14*hour},
		{UserID: 1, ItemID: 4, Value: 5, Timestamp: day + 9*hour},
		{UserID: 1, ItemID: 5, Value: 2, Timestamp: 2 * day},
		{UserID: 2, ItemID: 1, Value: 4, Timestamp: 0},
	}
	items := []Item{
		{ID: 1, Title: "Rocky (1976)", Genres: []string{"Drama"}},
		{ID: 2, Title: "Amelie (2001)", Genres: []string{"Comedy", "Drama"}},
		{ID: 3, Title: "Big (1988)", Genres: []string{"Comedy", "Drama"}},
		{ID: 4, Title: "Heat (1995)", Genres: []string{"Action"}},
	}
	return ratings, items
}

func TestProfile_Summary(t *testing.T) {
	ratings, items := profileRatings()
	s := newTestScorer(t, ratings, items)

	p, err := s.profile(1)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}

	if p.TotalRatings != 5 {
		t.Errorf("TotalRatings = %d, want 5", p.TotalRatings)
	}
	if p.Mean != 3.8 {
		t.Errorf("Mean = %v, want 3.8", p.Mean)
	}
	if p.Variance != 1.7 {
		t.Errorf("Variance = %v, want 1.7", p.Variance)
	}
	if p.StdDev != 1.304 {
		t.Errorf("StdDev = %v, want 1.304", p.StdDev)
	}

	wantDist := []RatingCount{{Value: 2, Count: 1}, {Value: 3, Count: 1}, {Value: 4, Count: 1}, {Value: 5, Count: 2}}
	if !reflect.DeepEqual(p.Distribution, wantDist) {
		t.Errorf("Distribution = %+v, want %+v", p.Distribution, wantDist)
	}
}

func TestProfile_FavoriteGenres(t *testing.T) {
	ratings, items := profileRatings()
	s := newTestScorer(t, ratings, items)

	p, err := s.profile(1)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}

	// Comedy has two ratings and Action one; only Drama reaches three.
	want := []GenreAffinity{{Genre: "Drama", Mean: 4, Count: 3}}
	if !reflect.DeepEqual(p.FavoriteGenres, want) {
		t.Errorf("FavoriteGenres = %+v, want %+v", p.FavoriteGenres, want)
	}

	s.cfg.Profile.GenreMinRatings = 2
	p, err = s.profile(1)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}
	if len(p.FavoriteGenres) != 2 || p.FavoriteGenres[0].Genre != "Drama" || p.FavoriteGenres[1].Genre != "Comedy" {
		t.Errorf("FavoriteGenres = %+v, want Drama then Comedy", p.FavoriteGenres)
	}
}

func TestProfile_Activity(t *testing.T) {
	ratings, items := profileRatings()
	s := newTestScorer(t, ratings, items)

	p, err := s.profile(1)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}

	wantHours := []ActivityBucket{{Label: "14", Count: 3}, {Label: "0", Count: 1}, {Label: "9", Count: 1}}
	if !reflect.DeepEqual(p.ActiveHours, wantHours) {
		t.Errorf("ActiveHours = %+v, want %+v", p.ActiveHours, wantHours)
	}
	wantDays := []ActivityBucket{{Label: "Thursday", Count: 2}, {Label: "Friday", Count: 2}, {Label: "Saturday", Count: 1}}
	if !reflect.DeepEqual(p.ActiveDays, wantDays) {
		t.Errorf("ActiveDays = %+v, want %+v", p.ActiveDays, wantDays)
	}
}

func TestProfile_TopItems(t *testing.T) {
	ratings, items := profileRatings()
	s := newTestScorer(t, ratings, items)
	s.cfg.Profile.TopItems = 4

	p, err := s.profile(1)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}

	var ids []int
	for _, it := range p.TopItems {
		ids = append(ids, it.ItemID)
	}
	if want := []int{1, 4, 2, 3}; !reflect.DeepEqual(ids, want) {
		t.Errorf("TopItems ids = %v, want %v", ids, want)
	}
	if p.TopItems[0].Title != "Rocky (1976)" || p.TopItems[0].Rating != 5 {
		t.Errorf("TopItems[0] = %+v", p.TopItems[0])
	}
}

func TestProfile_SingleRating(t *testing.T) {
	ratings, items := profileRatings()
	s := newTestScorer(t, ratings, items)

	p, err := s.profile(2)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}
	if p.Variance != 0 || p.StdDev != 0 {
		t.Errorf("Variance = %v, StdDev = %v, want 0", p.Variance, p.StdDev)
	}
	if len(p.FavoriteGenres) != 0 {
		t.Errorf("FavoriteGenres = %+v, want none", p.FavoriteGenres)
	}
}

func TestProfile_UnknownUser(t *testing.T) {
	ratings, items := profileRatings()
	s := newTestScorer(t, ratings, items)

	if _, err := s.profile(42); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("profile(42) error = %v, want ErrUserNotFound", err)
	}
}

func TestProfile_DuplicateRatingsMatchMatrix(t *testing.T) {
	ratings := []Rating{
		{UserID: 1, ItemID: 1, Value: 2, Timestamp: 100},
		{UserID: 1, ItemID: 1, Value: 5, Timestamp: 200},
		{UserID: 1, ItemID: 2, Value: 3, Timestamp: 150},
		{UserID: 1, ItemID: 2, Value: 4, Timestamp: 150},
		{UserID: 1, ItemID: 3, Value: 1, Timestamp: 300},
	}
	s := newTestScorer(t, ratings, nil)

	p, err := s.profile(1)
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}
	if p.TotalRatings != s.snap.matrix.NumRatings() || p.TotalRatings != 3 {
		t.Errorf("TotalRatings = %d, want 3 (matrix has %d)", p.TotalRatings, s.snap.matrix.NumRatings())
	}
	// Kept ratings are 5, 4 and 1.
	if p.Mean != 3.33 {
		t.Errorf("Mean = %v, want 3.33", p.Mean)
	}
	wantDist := []RatingCount{{Value: 1, Count: 1}, {Value: 4, Count: 1}, {Value: 5, Count: 1}}
	if !reflect.DeepEqual(p.Distribution, wantDist) {
		t.Errorf("Distribution = %+v, want %+v", p.Distribution, wantDist)
	}
	for _, it := range p.TopItems {
		if v, _ := s.snap.matrix.Rated(1, it.ItemID); v != it.Rating {
			t.Errorf("TopItems rating for item %d = %v, matrix has %v", it.ItemID, it.Rating, v)
		}
	}
}

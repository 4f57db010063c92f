// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"testing"
)

// votingRatings: user 1 rated only item 1. Users 2 and 3 rated items 1,
// 10 and 12; user 4 rated items 1 and 10; user 5 rated items 1 and 11 (3.0).
func votingRatings() []Rating {
	return []Rating{
		{UserID: 1, ItemID: 1, Value: 5},
		{UserID: 2, ItemID: 1, Value: 5}, {UserID: 2, ItemID: 10, Value: 5}, {UserID: 2, ItemID: 12, Value: 5},
		{UserID: 3, ItemID: 1, Value: 5}, {UserID: 3, ItemID: 10, Value: 5}, {UserID: 3, ItemID: 12, Value: 5},
		{UserID: 4, ItemID: 1, Value: 5}, {UserID: 4, ItemID: 10, Value: 5},
		{UserID: 5, ItemID: 1, Value: 5}, {UserID: 5, ItemID: 11, Value: 3},
	}
}

func TestIndividual_Voting(t *testing.T) {
	items := []Item{{ID: 10, Title: "Heat (1995)", Genres: []string{"Action"}, Year: 1995}}
	s := newTestScorer(t, votingRatings(), items)

	recs, err := s.individual(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("individual() error = %v", err)
	}

	// Item 12 has two votes and item 11 was rated below the like threshold.
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1: %+v", len(recs), recs)
	}
	rec := recs[0]
	if rec.ItemID != 10 {
		t.Errorf("ItemID = %d, want 10", rec.ItemID)
	}
	if rec.Support != 3 {
		t.Errorf("Support = %d, want 3", rec.Support)
	}
	// Votes: 2 x (1/sqrt(3) x 5) from users 2 and 3, 1/sqrt(2) x 5 from user 4.
	if rec.Predicted != 3.10 {
		t.Errorf("Predicted = %v, want 3.10", rec.Predicted)
	}
	if rec.Confidence != 0.06 {
		t.Errorf("Confidence = %v, want 0.06", rec.Confidence)
	}
	if want := "Users with similar taste rated this 3.1/5.0"; rec.Reason != want {
		t.Errorf("Reason = %q, want %q", rec.Reason, want)
	}
	if rec.Title != "Heat (1995)" || rec.Year != 1995 {
		t.Errorf("metadata not copied: %+v", rec)
	}
}

func TestIndividual_UnknownItemMetadataTolerated(t *testing.T) {
	s := newTestScorer(t, votingRatings(), nil)

	recs, err := s.individual(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("individual() error = %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "" {
		t.Errorf("recs = %+v, want one item without title", recs)
	}
}

func TestIndividual_Errors(t *testing.T) {
	s := newTestScorer(t, votingRatings(), nil)

	if _, err := s.individual(context.Background(), 42, 10); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("individual(42) error = %v, want ErrUserNotFound", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.individual(ctx, 1, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("individual(canceled) error = %v, want context.Canceled", err)
	}
}

func TestIndividual_Properties(t *testing.T) {
	ratings, items := communityRatings()
	s := newTestScorer(t, ratings, items)

	for _, n := range []int{1, 2, 50} {
		for user := 1; user <= 12; user++ {
			recs, err := s.individual(context.Background(), user, n)
			if err != nil {
				t.Fatalf("individual(%d, %d) error = %v", user, n, err)
			}
			if len(recs) > n {
				t.Errorf("individual(%d, %d) returned %d items", user, n, len(recs))
			}
			for i, r := range recs {
				if _, rated := s.snap.matrix.Rated(user, r.ItemID); rated {
					t.Errorf("user %d already rated recommended item %d", user, r.ItemID)
				}
				if r.Support < 3 {
					t.Errorf("item %d has support %d, want >= 3", r.ItemID, r.Support)
				}
				if i > 0 && (recs[i-1].Predicted < r.Predicted ||
					(recs[i-1].Predicted == r.Predicted && recs[i-1].ItemID > r.ItemID)) {
					t.Errorf("results not ordered at %d: %+v then %+v", i, recs[i-1], r)
				}
			}
		}
	}
}

func TestIndividual_CandidateLists(t *testing.T) {
	ratings, items := communityRatings()
	s := newTestScorer(t, ratings, items)

	tests := []struct {
		user int
		want map[int]bool
	}{
		{1, map[int]bool{32: true, 33: true, 34: true}},
		{2, map[int]bool{31: true, 33: true, 34: true}},
		{3, map[int]bool{}},
	}

	for _, tt := range tests {
		recs, err := s.individual(context.Background(), tt.user, 50)
		if err != nil {
			t.Fatalf("individual(%d) error = %v", tt.user, err)
		}
		if len(recs) != len(tt.want) {
			t.Errorf("user %d: got %d recommendations, want %d", tt.user, len(recs), len(tt.want))
		}
		for _, r := range recs {
			if !tt.want[r.ItemID] {
				t.Errorf("user %d: unexpected item %d", tt.user, r.ItemID)
			}
		}
	}
}

func TestNeighbors_TieBreakByUserID(t *testing.T) {
	// Users 2, 3 and 4 are identical, so their similarities to user 1 tie.
	ratings := []Rating{
		{UserID: 1, ItemID: 1, Value: 4},
		{UserID: 4, ItemID: 1, Value: 4},
		{UserID: 3, ItemID: 1, Value: 4},
		{UserID: 2, ItemID: 1, Value: 4},
	}
	s := newTestScorer(t, ratings, nil)
	s.cfg.Neighborhood.Size = 2
	s.cfg.Neighborhood.MinSupport = 1

	nbs, err := s.neighbors(context.Background(), 1)
	if err != nil {
		t.Fatalf("neighbors() error = %v", err)
	}
	if len(nbs) != 2 || nbs[0].ID != 2 || nbs[1].ID != 3 {
		t.Errorf("neighbors = %+v, want users 2 then 3", nbs)
	}
}

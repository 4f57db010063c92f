// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestBuildMatrix_Empty(t *testing.T) {
	_, err := BuildMatrix(nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("BuildMatrix(nil) error = %v, want ErrEmptyDataset", err)
	}
}

func TestBuildMatrix_Shape(t *testing.T) {
	ratings, _ := tinyRatings()
	m, err := BuildMatrix(ratings)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if m.NumUsers() != 3 {
		t.Errorf("NumUsers() = %d, want 3", m.NumUsers())
	}
	if m.NumItems() != 6 {
		t.Errorf("NumItems() = %d, want 6", m.NumItems())
	}
	if m.NumRatings() != 9 {
		t.Errorf("NumRatings() = %d, want 9", m.NumRatings())
	}
	if got, want := m.Users(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Users() = %v, want %v", got, want)
	}
	if got, want := m.RowItems(1), []int{101, 102, 103}; !reflect.DeepEqual(got, want) {
		t.Errorf("RowItems(1) = %v, want %v", got, want)
	}
	if !m.HasItem(106) || m.HasItem(999) {
		t.Error("HasItem() did not reflect the item columns")
	}
}

func TestBuildMatrix_ZeroIsNotUnrated(t *testing.T) {
	m, err := BuildMatrix([]Rating{
		{UserID: 1, ItemID: 10, Value: 0},
		{UserID: 1, ItemID: 11, Value: 4},
	})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	v, ok := m.Rated(1, 10)
	if !ok || v != 0 {
		t.Errorf("Rated(1, 10) = (%v, %v), want (0, true)", v, ok)
	}
	if _, ok := m.Rated(1, 12); ok {
		t.Error("Rated(1, 12) reported a rating for an unrated cell")
	}
	if _, ok := m.Rated(2, 10); ok {
		t.Error("Rated(2, 10) reported a rating for an unknown user")
	}
}

func TestBuildMatrix_Duplicates(t *testing.T) {
	tests := []struct {
		name    string
		ratings []Rating
		want    float64
	}{
		{
			name: "latest timestamp wins",
			ratings: []Rating{
				{UserID: 1, ItemID: 1, Value: 2, Timestamp: 200},
				{UserID: 1, ItemID: 1, Value: 5, Timestamp: 100},
			},
			want: 2,
		},
		{
			name: "equal timestamps keep larger value",
			ratings: []Rating{
				{UserID: 1, ItemID: 1, Value: 3, Timestamp: 100},
				{UserID: 1, ItemID: 1, Value: 4, Timestamp: 100},
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, order := range [][]Rating{tt.ratings, {tt.ratings[1], tt.ratings[0]}} {
				m, err := BuildMatrix(order)
				if err != nil {
					t.Fatalf("BuildMatrix() error = %v", err)
				}
				if v, _ := m.Rated(1, 1); v != tt.want {
					t.Errorf("Rated(1, 1) = %v, want %v", v, tt.want)
				}
				if m.NumRatings() != 1 {
					t.Errorf("NumRatings() = %d, want 1", m.NumRatings())
				}
			}
		})
	}
}

func TestBuildMatrix_OrderIndependent(t *testing.T) {
	ratings, _ := communityRatings()

	first, err := BuildMatrix(ratings)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	shuffled := append([]Rating(nil), ratings...)
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // test shuffling
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	second, err := BuildMatrix(shuffled)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("matrices built from the same ratings in different order differ")
	}
}

func TestInteractionMatrix_RowCosineSymmetric(t *testing.T) {
	ratings, _ := communityRatings()
	m, err := BuildMatrix(ratings)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	for _, a := range m.Users() {
		for _, b := range m.Users() {
			if ab, ba := m.rowCosine(a, b), m.rowCosine(b, a); ab != ba {
				t.Fatalf("rowCosine(%d, %d) = %v, rowCosine(%d, %d) = %v", a, b, ab, b, a, ba)
			}
		}
	}
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"
	"time"

	"github.com/tomtom215/cinematch/internal/cache"
)

// Snapshot is an immutable view of the rating store and its interaction
// matrix. Every query runs against exactly one snapshot.
type Snapshot struct {
	version int64
	builtAt time.Time
	source  string

	ratings []Rating
	// byUser holds one rating per rated item, ordered by item ID.
	byUser  map[int][]Rating
	items   map[int]Item
	itemIDs []int
	matrix  *InteractionMatrix

	features map[int]FeatureVector
}

// SnapshotOptions configures NewSnapshot.
type SnapshotOptions struct {
	// Version identifies the snapshot. Monotonic per engine.
	Version int64

	// Source describes where the data came from (for status reporting).
	Source string

	// BuiltAt overrides the build time. Defaults to time.Now().
	BuiltAt time.Time

	// Features computes content features. Optional.
	Features FeatureProvider
}

// NewSnapshot builds a snapshot from raw ratings and item metadata.
// The inputs are copied; later mutation by the caller is not observed.
func NewSnapshot(ratings []Rating, items []Item, opts SnapshotOptions) (*Snapshot, error) {
	matrix, err := BuildMatrix(ratings)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		version: opts.Version,
		builtAt: opts.BuiltAt,
		source:  opts.Source,
		ratings: append([]Rating(nil), ratings...),
		byUser:  make(map[int][]Rating, matrix.NumUsers()),
		items:   make(map[int]Item, len(items)),
		itemIDs: make([]int, 0, len(items)),
		matrix:  matrix,
	}
	if s.builtAt.IsZero() {
		s.builtAt = time.Now()
	}

	// Profiles see the same deduplicated ratings as the matrix.
	for userID, row := range latestRatings(s.ratings) {
		byItem := make([]Rating, 0, len(row))
		for _, itemID := range matrix.keys[userID] {
			byItem = append(byItem, row[itemID])
		}
		s.byUser[userID] = byItem
	}
	for _, it := range items {
		if _, dup := s.items[it.ID]; !dup {
			s.itemIDs = append(s.itemIDs, it.ID)
		}
		it.Genres = append([]string(nil), it.Genres...)
		s.items[it.ID] = it
	}
	sort.Ints(s.itemIDs)

	if opts.Features != nil {
		s.features = opts.Features.Features(s.Items())
	}

	return s, nil
}

// Version returns the snapshot version.
func (s *Snapshot) Version() int64 { return s.version }

// BuiltAt returns when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Source returns the data source description.
func (s *Snapshot) Source() string { return s.source }

// Matrix returns the interaction matrix.
func (s *Snapshot) Matrix() *InteractionMatrix { return s.matrix }

// Ratings returns a copy of the raw ratings.
func (s *Snapshot) Ratings() []Rating {
	return append([]Rating(nil), s.ratings...)
}

// Items returns item metadata in ascending ID order.
func (s *Snapshot) Items() []Item {
	out := make([]Item, 0, len(s.itemIDs))
	for _, id := range s.itemIDs {
		out = append(out, s.items[id])
	}
	return out
}

// Item looks up item metadata.
func (s *Snapshot) Item(id int) (Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Features returns the content feature vectors, or nil when none were
// computed. The map is shared and must not be modified.
func (s *Snapshot) Features() map[int]FeatureVector { return s.features }

// scorer runs queries against one snapshot with one configuration.
type scorer struct {
	snap    *Snapshot
	cfg     *Config
	nbCache *cache.LRU[neighborKey, []neighbor]
}

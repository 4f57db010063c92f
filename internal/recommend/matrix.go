// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"sort"
)

// InteractionMatrix is a sparse user x item rating matrix.
//
// A cell is either rated (present in the user's row) or unrated. A rating of
// 0 is a real value and is distinct from unrated. The matrix is immutable
// after BuildMatrix returns.
type InteractionMatrix struct {
	rows    map[int]map[int]float64
	keys    map[int][]int
	norms   map[int]float64
	users   []int
	items   []int
	ratings int
}

// latestRatings keeps one rating per (user, item): the latest timestamp,
// then the larger value.
func latestRatings(ratings []Rating) map[int]map[int]Rating {
	cells := make(map[int]map[int]Rating)
	for _, r := range ratings {
		row, ok := cells[r.UserID]
		if !ok {
			row = make(map[int]Rating)
			cells[r.UserID] = row
		}
		prev, seen := row[r.ItemID]
		if !seen || r.Timestamp > prev.Timestamp || (r.Timestamp == prev.Timestamp && r.Value > prev.Value) {
			row[r.ItemID] = r
		}
	}
	return cells
}

// BuildMatrix builds the interaction matrix from raw ratings.
//
// When a (user, item) pair occurs more than once, the rating with the latest
// timestamp wins; equal timestamps keep the larger value. The result does not
// depend on input order.
func BuildMatrix(ratings []Rating) (*InteractionMatrix, error) {
	if len(ratings) == 0 {
		return nil, ErrEmptyDataset
	}

	cells := latestRatings(ratings)
	itemSet := make(map[int]struct{})
	for _, r := range ratings {
		itemSet[r.ItemID] = struct{}{}
	}

	m := &InteractionMatrix{
		rows:  make(map[int]map[int]float64, len(cells)),
		keys:  make(map[int][]int, len(cells)),
		norms: make(map[int]float64, len(cells)),
		users: make([]int, 0, len(cells)),
		items: make([]int, 0, len(itemSet)),
	}

	for userID, row := range cells {
		values := make(map[int]float64, len(row))
		for itemID, r := range row {
			values[itemID] = r.Value
		}
		m.rows[userID] = values
		m.keys[userID] = sortedKeys(values)
		m.norms[userID] = rowNorm(values, m.keys[userID])
		m.users = append(m.users, userID)
		m.ratings += len(values)
	}
	for itemID := range itemSet {
		m.items = append(m.items, itemID)
	}
	sort.Ints(m.users)
	sort.Ints(m.items)

	return m, nil
}

// rowNorm sums in ascending item order so the float result is reproducible.
func rowNorm(row map[int]float64, keys []int) float64 {
	var sum float64
	for _, k := range keys {
		sum += row[k] * row[k]
	}
	return math.Sqrt(sum)
}

func sortedKeys(row map[int]float64) []int {
	keys := make([]int, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Rated returns the rating of item by user and whether the cell is rated.
func (m *InteractionMatrix) Rated(userID, itemID int) (float64, bool) {
	v, ok := m.rows[userID][itemID]
	return v, ok
}

// HasUser reports whether the user has at least one rating.
func (m *InteractionMatrix) HasUser(userID int) bool {
	_, ok := m.rows[userID]
	return ok
}

// HasItem reports whether at least one user rated the item.
func (m *InteractionMatrix) HasItem(itemID int) bool {
	i := sort.SearchInts(m.items, itemID)
	return i < len(m.items) && m.items[i] == itemID
}

// Users returns all user IDs in ascending order.
func (m *InteractionMatrix) Users() []int {
	return append([]int(nil), m.users...)
}

// Items returns all item IDs in ascending order.
func (m *InteractionMatrix) Items() []int {
	return append([]int(nil), m.items...)
}

// RowItems returns the rated item IDs of a user in ascending order.
func (m *InteractionMatrix) RowItems(userID int) []int {
	keys, ok := m.keys[userID]
	if !ok {
		return nil
	}
	return append([]int(nil), keys...)
}

// NumUsers returns the number of rows.
func (m *InteractionMatrix) NumUsers() int { return len(m.users) }

// NumItems returns the number of columns.
func (m *InteractionMatrix) NumItems() int { return len(m.items) }

// NumRatings returns the number of rated cells.
func (m *InteractionMatrix) NumRatings() int { return m.ratings }

// rowCosine is the cosine of two full rows with unrated cells taken as 0.
func (m *InteractionMatrix) rowCosine(a, b int) float64 {
	na, nb := m.norms[a], m.norms[b]
	if na == 0 || nb == 0 {
		return 0
	}
	// Iterate the shorter row; order the pair so the result is symmetric.
	if la, lb := len(m.keys[a]), len(m.keys[b]); lb < la || (lb == la && b < a) {
		a, b = b, a
	}
	ra, rb := m.rows[a], m.rows[b]
	var dot float64
	for _, itemID := range m.keys[a] {
		if vb, ok := rb[itemID]; ok {
			dot += ra[itemID] * vb
		}
	}
	return dot / (na * nb)
}

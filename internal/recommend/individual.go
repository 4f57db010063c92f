// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// cancelCheckInterval is how many neighbor comparisons run between context checks.
const cancelCheckInterval = 1024

// neighbor is a similar user with its full-vector cosine similarity.
type neighbor struct {
	ID         int
	Similarity float64
}

// neighborKey identifies a cached neighbor list.
type neighborKey struct {
	version int64
	user    int
}

// neighbors returns the most similar users to userID by full-vector cosine,
// excluding userID itself. Ties are broken by ascending user ID.
// The result may be shared through the cache and must not be modified.
func (s *scorer) neighbors(ctx context.Context, userID int) ([]neighbor, error) {
	key := neighborKey{version: s.snap.version, user: userID}
	if s.nbCache != nil {
		if nbs, ok := s.nbCache.Get(key); ok {
			return nbs, nil
		}
	}

	out, err := s.computeNeighbors(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.nbCache != nil {
		s.nbCache.Add(key, out)
	}
	return out, nil
}

func (s *scorer) computeNeighbors(ctx context.Context, userID int) ([]neighbor, error) {
	m := s.snap.matrix
	out := make([]neighbor, 0, m.NumUsers())

	for i, otherID := range m.users {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if otherID == userID {
			continue
		}
		out = append(out, neighbor{ID: otherID, Similarity: m.rowCosine(userID, otherID)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].ID < out[j].ID
	})

	if k := s.cfg.Neighborhood.Size; len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// individual returns up to n recommendations for userID.
//
// Every neighbor that rated an item at or above the like threshold, where
// the target has not rated the item, casts a vote of similarity x rating.
// Items with fewer than MinSupport votes are dropped; the prediction is the
// mean vote.
func (s *scorer) individual(ctx context.Context, userID, n int) ([]Recommendation, error) {
	m := s.snap.matrix
	if !m.HasUser(userID) {
		return nil, newError(ErrUserNotFound, "user %d", userID)
	}
	if n <= 0 {
		return []Recommendation{}, nil
	}

	neighbors, err := s.neighbors(ctx, userID)
	if err != nil {
		return nil, err
	}

	target := m.rows[userID]
	votes := make(map[int][]float64)
	for _, nb := range neighbors {
		row := m.rows[nb.ID]
		for _, itemID := range m.keys[nb.ID] {
			rating := row[itemID]
			if rating < s.cfg.Neighborhood.LikeThreshold {
				continue
			}
			if _, rated := target[itemID]; rated {
				continue
			}
			votes[itemID] = append(votes[itemID], nb.Similarity*rating)
		}
	}

	pool := float64(s.cfg.Neighborhood.Size)
	recs := make([]Recommendation, 0, len(votes))
	for itemID, vs := range votes {
		if len(vs) < s.cfg.Neighborhood.MinSupport {
			continue
		}
		avg := mean(vs)
		rec := Recommendation{
			ItemID:     itemID,
			Predicted:  round(avg, 2),
			Support:    len(vs),
			Confidence: round(float64(len(vs))/pool, 2),
			Reason:     fmt.Sprintf("Users with similar taste rated this %.1f/%.1f", avg, s.cfg.Scale.Max),
		}
		s.annotate(&rec)
		recs = append(recs, rec)
	}

	sortRecommendations(recs)
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// annotate copies item metadata into rec when the item is known.
func (s *scorer) annotate(rec *Recommendation) {
	it, ok := s.snap.items[rec.ItemID]
	if !ok {
		return
	}
	rec.Title = it.Title
	rec.Genres = it.Genres
	rec.Year = it.Year
}

// sortRecommendations orders by predicted score descending, then item ID.
func sortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Predicted != recs[j].Predicted {
			return recs[i].Predicted > recs[j].Predicted
		}
		return recs[i].ItemID < recs[j].ItemID
	})
}

// mean sums in slice order.
func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"sort"
)

// ItemSimilarity is a content neighbor of an item.
type ItemSimilarity struct {
	ItemID     int      `json:"item_id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres,omitempty"`
	Year       int      `json:"year,omitempty"`
	Similarity float64  `json:"similarity"`
}

// Cosine returns the cosine similarity of two sparse vectors.
func (v FeatureVector) Cosine(other FeatureVector) float64 {
	if len(v) == 0 || len(other) == 0 {
		return 0
	}
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for _, tok := range sortedTokens(a) {
		if w, ok := b[tok]; ok {
			dot += a[tok] * w
		}
	}
	na, nb := v.Norm(), other.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

// Norm returns the L2 norm.
func (v FeatureVector) Norm() float64 {
	var sum float64
	for _, tok := range sortedTokens(v) {
		sum += v[tok] * v[tok]
	}
	return math.Sqrt(sum)
}

func sortedTokens(v FeatureVector) []string {
	toks := make([]string, 0, len(v))
	for t := range v {
		toks = append(toks, t)
	}
	sort.Strings(toks)
	return toks
}

// GenreJaccard is the Jaccard index of two items' genre sets.
func GenreJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, g := range a {
		set[g] = struct{}{}
	}
	inter := 0
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, g := range b {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := set[g]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// similarItems ranks other items by content similarity. Without content
// features it falls back to genre Jaccard similarity.
func (s *scorer) similarItems(itemID, k int) ([]ItemSimilarity, error) {
	target, ok := s.snap.items[itemID]
	if !ok {
		return nil, newError(ErrItemNotFound, "item %d", itemID)
	}

	feats := s.snap.features
	targetVec := feats[itemID]

	out := make([]ItemSimilarity, 0, len(s.snap.itemIDs))
	for _, id := range s.snap.itemIDs {
		if id == itemID {
			continue
		}
		it := s.snap.items[id]
		var sim float64
		if feats != nil {
			sim = targetVec.Cosine(feats[id])
		} else {
			sim = GenreJaccard(target.Genres, it.Genres)
		}
		if sim <= 0 {
			continue
		}
		out = append(out, ItemSimilarity{
			ItemID:     id,
			Title:      it.Title,
			Genres:     it.Genres,
			Year:       it.Year,
			Similarity: round(sim, 3),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].ItemID < out[j].ItemID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

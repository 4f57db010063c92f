// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
)

// similarity compares two users over the items both have rated.
func (s *scorer) similarity(a, b int) (*SimilarityReport, error) {
	m := s.snap.matrix
	if !m.HasUser(a) {
		return nil, newError(ErrUserNotFound, "user %d", a)
	}
	if !m.HasUser(b) {
		return nil, newError(ErrUserNotFound, "user %d", b)
	}
	if a == b {
		return nil, newError(ErrSelfSimilarity, "user %d", a)
	}

	va, vb := s.coRated(a, b)
	if len(va) < s.cfg.Similarity.MinCoRated {
		return nil, newError(ErrInsufficientOverlap, "users %d and %d share %d rated items, need %d",
			a, b, len(va), s.cfg.Similarity.MinCoRated)
	}

	cosine := cosineSim(va, vb)
	mad := meanAbsDiff(va, vb)

	return &SimilarityReport{
		UserA:         a,
		UserB:         b,
		Cosine:        round(cosine, 3),
		Pearson:       round(pearsonSim(va, vb), 3),
		CoRated:       len(va),
		MeanAbsDiff:   round(mad, 2),
		Compatibility: round((cosine+(1-mad/s.cfg.Scale.Span()))/2, 3),
		Level:         ClassifySimilarity(cosine),
	}, nil
}

// coRated returns aligned rating vectors over the items both users rated,
// in ascending item order. Presence decides co-rating, not value.
func (s *scorer) coRated(a, b int) (va, vb []float64) {
	m := s.snap.matrix
	// Walk the lower user ID's row so both argument orders sum identically.
	if b < a {
		a, b = b, a
		defer func() { va, vb = vb, va }()
	}
	for _, itemID := range m.keys[a] {
		if rb, ok := m.rows[b][itemID]; ok {
			va = append(va, m.rows[a][itemID])
			vb = append(vb, rb)
		}
	}
	return va, vb
}

func cosineSim(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// pearsonSim returns 0 when either vector has zero variance.
func pearsonSim(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}

	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(len(a))
	meanB := sumB / float64(len(b))

	var num, denA, denB float64
	for i := range a {
		diffA := a[i] - meanA
		diffB := b[i] - meanB
		num += diffA * diffB
		denA += diffA * diffA
		denB += diffB * diffB
	}

	if denA == 0 || denB == 0 {
		return 0
	}

	return num / (math.Sqrt(denA) * math.Sqrt(denB))
}

func meanAbsDiff(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum / float64(len(a))
}

// round rounds half away from zero to the given number of decimals.
func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

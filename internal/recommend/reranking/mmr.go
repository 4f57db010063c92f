// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package reranking implements post-processing algorithms for recommendation diversity.
package reranking

import (
	"math"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// maxRerankSize limits slice allocations. n is also bounded by len(recs).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking of group results.
// It balances relevance and diversity by iteratively selecting movies
// that score well for the group and are dissimilar to movies already picked.
//
// The MMR formula is:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Where:
//   - lambda: balance parameter (1.0 = pure relevance, 0.0 = pure diversity)
//   - score(i): the group score of movie i divided by the best group score
//   - sim(i, s): content cosine of the two movies, or genre Jaccard when
//     either has no feature vector
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// Lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker.
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank applies MMR reranking to diversify the group recommendation list.
// Ties keep the input order.
//
//nolint:gocritic // rangeValCopy: JointRecommendation passed by value in range, acceptable for clarity
func (m *MMR) Rerank(recs []recommend.JointRecommendation, features map[int]recommend.FeatureVector, n int) []recommend.JointRecommendation {
	if len(recs) == 0 || n <= 0 {
		return recs
	}

	k := n
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(recs) {
		k = len(recs)
	}

	// Early return if lambda is 1.0 (pure relevance)
	if m.lambda >= 1.0 {
		return recs[:k]
	}

	relevance := normalizedScores(recs)
	similarities := m.buildSimilarityMatrix(recs, features)

	selected := make([]recommend.JointRecommendation, 0, k)
	selectedIndices := make([]int, 0, k)
	taken := make([]bool, len(recs))

	for len(selected) < k {
		bestIdx := -1
		bestMMR := math.Inf(-1)

		for i := range recs {
			if taken[i] {
				continue
			}

			maxSim := 0.0
			for _, j := range selectedIndices {
				if sim := similarities[i][j]; sim > maxSim {
					maxSim = sim
				}
			}

			mmrScore := m.lambda*relevance[i] - (1-m.lambda)*maxSim
			if mmrScore > bestMMR {
				bestMMR = mmrScore
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}

		selected = append(selected, recs[bestIdx])
		selectedIndices = append(selectedIndices, bestIdx)
		taken[bestIdx] = true
	}

	return selected
}

// groupScore is the score a strategy ordered by: the hybrid score when set,
// otherwise the joint score.
func groupScore(r *recommend.JointRecommendation) float64 {
	if r.HybridScore != 0 {
		return r.HybridScore
	}
	return r.JointScore
}

// normalizedScores scales group scores into [0, 1] by the best score.
func normalizedScores(recs []recommend.JointRecommendation) []float64 {
	best := 0.0
	for i := range recs {
		if s := groupScore(&recs[i]); s > best {
			best = s
		}
	}
	out := make([]float64, len(recs))
	if best <= 0 {
		return out
	}
	for i := range recs {
		out[i] = groupScore(&recs[i]) / best
	}
	return out
}

// buildSimilarityMatrix computes pairwise content similarity.
func (m *MMR) buildSimilarityMatrix(recs []recommend.JointRecommendation, features map[int]recommend.FeatureVector) [][]float64 {
	n := len(recs)
	similarities := make([][]float64, n)
	for i := range similarities {
		similarities[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := itemSimilarity(&recs[i], &recs[j], features)
			similarities[i][j] = sim
			similarities[j][i] = sim
		}
	}

	return similarities
}

func itemSimilarity(a, b *recommend.JointRecommendation, features map[int]recommend.FeatureVector) float64 {
	va, okA := features[a.ItemID]
	vb, okB := features[b.ItemID]
	if okA && okB {
		return va.Cosine(vb)
	}
	return computeGenreSimilarity(a.Genres, b.Genres)
}

// computeGenreSimilarity computes Jaccard similarity between genre lists.
func computeGenreSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, g := range a {
		setA[strings.ToLower(g)] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, g := range b {
		setB[strings.ToLower(g)] = struct{}{}
	}

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Ensure MMR implements the interface.
var _ recommend.GroupReranker = (*MMR)(nil)

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package reranking implements post-processing algorithms for recommendation diversity.
//
// Rerankers operate on already-ordered group recommendations and reorder
// them to balance the group's predicted enjoyment against variety. A group
// strategy can easily return ten near-identical thrillers; a reranker trades
// a little predicted score for a more varied evening.
//
// # Overview
//
// Reranking is applied after the group strategy has ordered its results:
//
//	Individual lists -> Group strategy -> Rerankers -> Final list
//	(per member)        (joint score)     (diversity)
//
// # Interface
//
// All rerankers implement the recommend.GroupReranker interface:
//
//	type GroupReranker interface {
//	    Name() string
//	    Rerank(recs []JointRecommendation, features map[int]FeatureVector, n int) []JointRecommendation
//	}
//
// # Usage Example
//
//	engine.RegisterReranker(reranking.NewMMR(0.7))
//
// The engine registers MMR only when diversity is enabled in configuration.
//
// # MMR Algorithm
//
// Maximal Marginal Relevance iteratively selects movies that are both
// relevant and dissimilar to already-selected movies:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max_similarity(i, selected)]
//
// Relevance is the group score normalized by the best score in the list, so
// lambda means the same thing for every strategy.
//
// Lambda Guidelines:
//   - 0.9-1.0: Mostly relevance, minimal diversity
//   - 0.7-0.9: Balanced
//   - 0.0-0.7: Strong diversity push
//
// # Similarity Metrics
//
// Similarity is the cosine of the snapshot's content feature vectors. When a
// movie has no vector, genre Jaccard similarity is used instead:
//
//	sim(a, b) = |genres(a) intersection genres(b)| / |genres(a) union genres(b)|
//
// # Performance
//
//   - Time: O(k * n^2) where k = output size, n = input size
//   - Space: O(n^2) for similarity matrix
//
// Group candidate pools are bounded by configuration, so n stays small.
//
// # Thread Safety
//
// Rerankers are stateless and safe for concurrent use.
package reranking

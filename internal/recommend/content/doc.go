// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package content computes content feature vectors for movies.
//
// The TFIDF provider turns each movie's genres and release decade into a
// sparse, L2-normalized TF-IDF vector. The engine uses these vectors for
// item-to-item similarity and the MMR reranker uses them to measure how
// alike two recommendations are.
//
// # Tokens
//
// Every movie contributes one token per distinct genre (lowercased) and,
// when the release year is known, one decade token:
//
//	Toy Story (1995), Adventure|Animation|Children
//	  -> adventure, animation, children, decade_1990
//
// # Weighting
//
// Token weights use smoothed inverse document frequency:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// where n is the number of movies and df(t) the number of movies carrying
// token t. Vectors are normalized to unit length, so the dot product of two
// vectors is their cosine similarity.
//
// # Usage
//
//	engine.SetFeatureProvider(content.NewTFIDF(content.TFIDFConfig{}))
//
// Features are computed once per snapshot. The provider holds no state and
// is safe for concurrent use.
package content

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package content

import (
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// decadePrefix prefixes decade tokens, e.g. "decade_1990".
const decadePrefix = "decade_"

// TFIDF builds genre and decade TF-IDF vectors.
type TFIDF struct {
	decadeWeight float64
}

// TFIDFConfig contains configuration for the TF-IDF provider.
type TFIDFConfig struct {
	// DecadeWeight scales the decade token's term frequency.
	// Zero selects 1.0; a negative value drops decade tokens.
	DecadeWeight float64
}

// NewTFIDF creates a TF-IDF feature provider.
func NewTFIDF(cfg TFIDFConfig) *TFIDF {
	if cfg.DecadeWeight == 0 {
		cfg.DecadeWeight = 1.0
	}
	return &TFIDF{decadeWeight: cfg.DecadeWeight}
}

// Name returns the provider identifier.
func (t *TFIDF) Name() string {
	return "tfidf"
}

// Features returns one unit-length vector per item. Items without genres or
// a known year get no vector.
//
//nolint:gocritic // rangeValCopy: Item passed by value in range, acceptable for clarity
func (t *TFIDF) Features(items []recommend.Item) map[int]recommend.FeatureVector {
	termFreqs := make(map[int]map[string]float64, len(items))
	docFreq := make(map[string]int)

	for _, item := range items {
		tf := t.tokens(item)
		if len(tf) == 0 {
			continue
		}
		termFreqs[item.ID] = tf
		for tok := range tf {
			docFreq[tok]++
		}
	}

	n := float64(len(items))
	idf := make(map[string]float64, len(docFreq))
	for tok, df := range docFreq {
		idf[tok] = math.Log((1+n)/(1+float64(df))) + 1
	}

	out := make(map[int]recommend.FeatureVector, len(termFreqs))
	for id, tf := range termFreqs {
		vec := make(recommend.FeatureVector, len(tf))
		for tok, f := range tf {
			vec[tok] = f * idf[tok]
		}
		norm := vec.Norm()
		if norm == 0 {
			continue
		}
		for tok := range vec {
			vec[tok] /= norm
		}
		out[id] = vec
	}
	return out
}

// tokens returns the term frequencies of an item's tokens.
func (t *TFIDF) tokens(item recommend.Item) map[string]float64 {
	tf := make(map[string]float64, len(item.Genres)+1)
	for _, g := range item.Genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		tf[g] = 1
	}
	if item.Year > 0 && t.decadeWeight > 0 {
		tf[DecadeToken(item.Year)] = t.decadeWeight
	}
	return tf
}

// DecadeToken returns the decade token for a release year.
func DecadeToken(year int) string {
	return decadePrefix + strconv.Itoa(year/10*10)
}

// Ensure TFIDF implements the interface.
var _ recommend.FeatureProvider = (*TFIDF)(nil)

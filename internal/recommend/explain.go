// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// notInTopReason marks a member whose top list does not contain the item.
const notInTopReason = "Not in top recommendations"

// analyzeGroup compares the tastes of a group of users.
func (s *scorer) analyzeGroup(users []int) (*GroupAnalysis, error) {
	users = uniqueUsers(users)
	if len(users) < 2 {
		return nil, newError(ErrInsufficientGroup, "need at least 2 users, got %d", len(users))
	}

	valid := make([]int, 0, len(users))
	profiles := make(map[int]*UserProfile, len(users))
	for _, u := range users {
		p, err := s.profile(u)
		if errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("profile for user %d: %w", u, err)
		}
		profiles[u] = p
		valid = append(valid, u)
	}
	if len(valid) < 2 {
		return nil, newError(ErrInsufficientGroup, "%d of %d users have ratings", len(valid), len(users))
	}

	common, all := genreOverlap(valid, profiles)

	a := &GroupAnalysis{
		GroupSize:    len(valid),
		CommonGenres: common,
		AllGenres:    all,
		Pairs:        []SimilarityReport{},
		Harmony:      HarmonyUnknown,
	}
	if len(all) > 0 {
		a.GenreOverlap = round(float64(len(common))/float64(len(all))*100, 1)
	}

	for i, u := range valid {
		for _, v := range valid[i+1:] {
			rep, err := s.similarity(u, v)
			if errors.Is(err, ErrInsufficientOverlap) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("similarity of %d and %d: %w", u, v, err)
			}
			a.Pairs = append(a.Pairs, *rep)
		}
	}

	if len(a.Pairs) > 0 {
		compat := make([]float64, len(a.Pairs))
		for i, p := range a.Pairs {
			compat[i] = p.Compatibility
		}
		a.Compatibility = round(mean(compat), 3)
		a.Harmony = classifyHarmony(a.Compatibility)
	}
	a.SuggestedStrategy = suggestStrategy(a.Compatibility, len(common))

	return a, nil
}

// genreOverlap returns the sorted intersection and union of favorite genres.
func genreOverlap(users []int, profiles map[int]*UserProfile) (common, all []string) {
	counts := make(map[string]int)
	for _, u := range users {
		for g := range profiles[u].GenreSet() {
			counts[g]++
		}
	}
	common = []string{}
	all = make([]string, 0, len(counts))
	for g, c := range counts {
		all = append(all, g)
		if c == len(users) {
			common = append(common, g)
		}
	}
	sort.Strings(common)
	sort.Strings(all)
	return common, all
}

func classifyHarmony(compatibility float64) Harmony {
	switch {
	case compatibility >= 0.7:
		return HarmonyHigh
	case compatibility >= 0.5:
		return HarmonyMedium
	default:
		return HarmonyLow
	}
}

func suggestStrategy(compatibility float64, commonGenres int) Strategy {
	switch {
	case compatibility >= 0.7 && commonGenres >= 3:
		return StrategyIntersection
	case compatibility >= 0.5:
		return StrategyWeighted
	default:
		return StrategyLeastMisery
	}
}

// explain reports each member's prediction for an item and the genre
// factors that connect the item to the group.
func (s *scorer) explain(ctx context.Context, itemID int, users []int) (*Explanation, error) {
	it, ok := s.snap.items[itemID]
	if !ok {
		return nil, newError(ErrItemNotFound, "item %d", itemID)
	}
	users = uniqueUsers(users)

	e := &Explanation{
		Item:        it,
		Predictions: make([]UserPrediction, 0, len(users)),
		Factors:     []string{},
	}

	for _, u := range users {
		pred := UserPrediction{UserID: u, Reason: notInTopReason}
		recs, err := s.individual(ctx, u, s.cfg.Limits.ExplainDepth)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("individual recommendations for user %d: %w", u, err)
		}
		for _, r := range recs {
			if r.ItemID == itemID {
				pred = UserPrediction{
					UserID:     u,
					InTop:      true,
					Predicted:  r.Predicted,
					Confidence: r.Confidence,
					Reason:     r.Reason,
				}
				break
			}
		}
		e.Predictions = append(e.Predictions, pred)
	}

	for _, u := range users {
		p, err := s.profile(u)
		if err != nil {
			continue
		}
		var liked []string
		for _, g := range p.FavoriteGenres {
			if it.HasGenre(g.Genre) {
				liked = append(liked, g.Genre)
			}
		}
		if len(liked) == 0 {
			continue
		}
		sort.Strings(liked)
		e.Factors = append(e.Factors, fmt.Sprintf("User %d likes %s genre(s)", u, strings.Join(liked, ", ")))
	}

	return e, nil
}

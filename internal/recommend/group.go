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

// candidatePool holds every member's individual list for one group query.
type candidatePool struct {
	users []int
	lists []map[int]Recommendation
	union []int
}

// uniqueUsers drops repeated IDs, keeping first-seen order.
func uniqueUsers(users []int) []int {
	seen := make(map[int]struct{}, len(users))
	out := make([]int, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// buildPool collects each member's top individual recommendations. It
// returns nil when the group has fewer than two members or any member has
// no recommendations (including members absent from the matrix).
func (s *scorer) buildPool(ctx context.Context, users []int) (*candidatePool, error) {
	users = uniqueUsers(users)
	if len(users) < 2 {
		return nil, nil
	}

	pool := &candidatePool{
		users: users,
		lists: make([]map[int]Recommendation, len(users)),
	}
	unionSet := make(map[int]struct{})

	for i, u := range users {
		recs, err := s.individual(ctx, u, s.cfg.Group.CandidatePool)
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("individual recommendations for user %d: %w", u, err)
		}
		if len(recs) == 0 {
			return nil, nil
		}
		list := make(map[int]Recommendation, len(recs))
		for _, r := range recs {
			list[r.ItemID] = r
			unionSet[r.ItemID] = struct{}{}
		}
		pool.lists[i] = list
	}

	pool.union = make([]int, 0, len(unionSet))
	for id := range unionSet {
		pool.union = append(pool.union, id)
	}
	sort.Ints(pool.union)
	return pool, nil
}

// base returns the first member's record for the item, as the shared
// metadata of the joint result.
func (p *candidatePool) base(itemID int) Recommendation {
	for _, list := range p.lists {
		if r, ok := list[itemID]; ok {
			return r
		}
	}
	return Recommendation{ItemID: itemID}
}

// scores returns each member's prediction for the item, substituting fill
// for members without one. ok is false when any member lacked the item.
func (p *candidatePool) scores(itemID int, fill float64) (vals []float64, ok bool) {
	vals = make([]float64, len(p.lists))
	ok = true
	for i, list := range p.lists {
		if r, found := list[itemID]; found {
			vals[i] = r.Predicted
		} else {
			vals[i] = fill
			ok = false
		}
	}
	return vals, ok
}

func (p *candidatePool) joint(itemID int, vals []float64, score float64, tag, explanation string) JointRecommendation {
	userScores := make(map[int]float64, len(p.users))
	for i, u := range p.users {
		userScores[u] = round(vals[i], 2)
	}
	return JointRecommendation{
		Recommendation: p.base(itemID),
		JointScore:     round(score, 2),
		UserScores:     userScores,
		Strategy:       tag,
		Explanation:    explanation,
	}
}

// intersection keeps items present in every member's list, scored by the
// mean prediction.
func (s *scorer) intersection(p *candidatePool) []JointRecommendation {
	var out []JointRecommendation
	for _, itemID := range p.union {
		vals, all := p.scores(itemID, 0)
		if !all {
			continue
		}
		expl := fmt.Sprintf("%s would love this! Predicted ratings: %s", everyone(len(vals), "Both of you", "Everyone"), joinScores(vals, " & "))
		out = append(out, p.joint(itemID, vals, mean(vals), string(StrategyIntersection), expl))
	}
	sortJoint(out)
	return out
}

// weighted scores the union of candidates by the mean prediction, filling
// gaps with the neutral score, and keeps items at or above the floor.
func (s *scorer) weighted(p *candidatePool) []JointRecommendation {
	var out []JointRecommendation
	for _, itemID := range p.union {
		vals, _ := p.scores(itemID, s.cfg.Group.NeutralFill)
		score := mean(vals)
		if score < s.cfg.Group.JointFloor {
			continue
		}
		expl := fmt.Sprintf("Balanced choice for %s: %s", everyone(len(vals), "both", "everyone"), joinScores(vals, " & "))
		out = append(out, p.joint(itemID, vals, score, string(StrategyWeighted), expl))
	}
	sortJoint(out)
	return out
}

// leastMisery scores the union of candidates by the lowest prediction,
// filling gaps with the neutral score, and keeps items at or above the floor.
func (s *scorer) leastMisery(p *candidatePool) []JointRecommendation {
	var out []JointRecommendation
	for _, itemID := range p.union {
		vals, _ := p.scores(itemID, s.cfg.Group.NeutralFill)
		score := vals[0]
		for _, v := range vals[1:] {
			score = min(score, v)
		}
		if score < s.cfg.Group.JointFloor {
			continue
		}
		expl := fmt.Sprintf("Safe choice - ensures no one dislikes it! (%s)", joinScores(vals, ", "))
		out = append(out, p.joint(itemID, vals, score, string(StrategyLeastMisery), expl))
	}
	sortJoint(out)
	return out
}

// hybrid composes intersection and weighted over the same pool. Intersection
// items are boosted; weighted-only items keep their joint score. Both inputs
// are cut to the candidate pool size before merging.
func (s *scorer) hybrid(p *candidatePool) []JointRecommendation {
	limit := s.cfg.Group.CandidatePool
	inter := truncateJoint(s.intersection(p), limit)
	weighted := truncateJoint(s.weighted(p), limit)

	seen := make(map[int]struct{}, len(inter))
	out := make([]JointRecommendation, 0, len(inter)+len(weighted))
	for _, r := range inter {
		r.HybridScore = r.JointScore * s.cfg.Group.HybridBoost
		r.Strategy = TagHybridIntersection
		seen[r.ItemID] = struct{}{}
		out = append(out, r)
	}
	for _, r := range weighted {
		if _, dup := seen[r.ItemID]; dup {
			continue
		}
		r.HybridScore = r.JointScore
		r.Strategy = TagHybridWeighted
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].HybridScore != out[j].HybridScore {
			return out[i].HybridScore > out[j].HybridScore
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// group dispatches to the strategy and returns the full ordered result.
func (s *scorer) group(ctx context.Context, users []int, strategy Strategy) ([]JointRecommendation, error) {
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	pool, err := s.buildPool(ctx, users)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return []JointRecommendation{}, nil
	}

	var out []JointRecommendation
	switch strategy {
	case StrategyIntersection:
		out = s.intersection(pool)
	case StrategyWeighted:
		out = s.weighted(pool)
	case StrategyLeastMisery:
		out = s.leastMisery(pool)
	case StrategyHybrid:
		out = s.hybrid(pool)
	}
	if out == nil {
		out = []JointRecommendation{}
	}
	return out, nil
}

// sortJoint orders by joint score descending, then item ID.
func sortJoint(recs []JointRecommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].JointScore != recs[j].JointScore {
			return recs[i].JointScore > recs[j].JointScore
		}
		return recs[i].ItemID < recs[j].ItemID
	})
}

func truncateJoint(recs []JointRecommendation, n int) []JointRecommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}

// everyone picks the couple phrasing for two members.
func everyone(size int, pair, all string) string {
	if size == 2 {
		return pair
	}
	return all
}

func joinScores(vals []float64, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, sep)
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// profile summarizes a user's raw rating history.
func (s *scorer) profile(userID int) (*UserProfile, error) {
	ratings := s.snap.byUser[userID]
	if len(ratings) == 0 {
		return nil, newError(ErrUserNotFound, "user %d", userID)
	}

	p := &UserProfile{
		UserID:       userID,
		TotalRatings: len(ratings),
	}

	values := make([]float64, len(ratings))
	hist := make(map[float64]int)
	for i, r := range ratings {
		values[i] = r.Value
		hist[r.Value]++
	}
	p.Distribution = histogram(hist)
	p.Mean = round(mean(values), 2)
	variance := sampleVariance(values)
	p.Variance = round(variance, 3)
	p.StdDev = round(math.Sqrt(variance), 3)

	p.FavoriteGenres = s.genreAffinities(ratings)
	p.ActiveHours, p.ActiveDays = s.activity(ratings)
	p.TopItems = s.topItems(ratings)

	return p, nil
}

func histogram(hist map[float64]int) []RatingCount {
	out := make([]RatingCount, 0, len(hist))
	for v, c := range hist {
		out = append(out, RatingCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// sampleVariance uses the n-1 denominator and is 0 for fewer than two values.
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return ss / float64(len(values)-1)
}

// genreAffinities averages ratings per genre over items with known metadata,
// keeps genres with enough ratings and returns the best by mean.
func (s *scorer) genreAffinities(ratings []Rating) []GenreAffinity {
	type acc struct {
		sum   float64
		count int
	}
	byGenre := make(map[string]*acc)
	for _, r := range ratings {
		it, ok := s.snap.items[r.ItemID]
		if !ok {
			continue
		}
		for _, g := range it.Genres {
			a := byGenre[g]
			if a == nil {
				a = &acc{}
				byGenre[g] = a
			}
			a.sum += r.Value
			a.count++
		}
	}

	out := make([]GenreAffinity, 0, len(byGenre))
	for g, a := range byGenre {
		if a.count < s.cfg.Profile.GenreMinRatings {
			continue
		}
		out = append(out, GenreAffinity{Genre: g, Mean: round(a.sum/float64(a.count), 2), Count: a.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Genre < out[j].Genre
	})
	if len(out) > s.cfg.Profile.MaxGenres {
		out = out[:s.cfg.Profile.MaxGenres]
	}
	return out
}

// activity returns the busiest hours of day and weekdays in UTC.
func (s *scorer) activity(ratings []Rating) (hours, days []ActivityBucket) {
	var hourCounts [24]int
	var dayCounts [7]int
	for _, r := range ratings {
		t := r.Time()
		hourCounts[t.Hour()]++
		dayCounts[t.Weekday()]++
	}

	hours = topBuckets(hourCounts[:], s.cfg.Profile.ActivityBuckets, func(i int) string {
		return strconv.Itoa(i)
	})
	days = topBuckets(dayCounts[:], s.cfg.Profile.ActivityBuckets, func(i int) string {
		return time.Weekday(i).String()
	})
	return hours, days
}

// topBuckets picks the n largest non-empty counts, ties by index.
func topBuckets(counts []int, n int, label func(int) string) []ActivityBucket {
	idx := make([]int, 0, len(counts))
	for i, c := range counts {
		if c > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return counts[idx[a]] > counts[idx[b]]
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]ActivityBucket, len(idx))
	for i, k := range idx {
		out[i] = ActivityBucket{Label: label(k), Count: counts[k]}
	}
	return out
}

// topItems returns the highest rated items, ties by item ID.
func (s *scorer) topItems(ratings []Rating) []RatedItem {
	sorted := append([]Rating(nil), ratings...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})
	if len(sorted) > s.cfg.Profile.TopItems {
		sorted = sorted[:s.cfg.Profile.TopItems]
	}

	out := make([]RatedItem, len(sorted))
	for i, r := range sorted {
		out[i] = RatedItem{ItemID: r.ItemID, Rating: r.Value}
		if it, ok := s.snap.items[r.ItemID]; ok {
			out[i].Title = it.Title
			out[i].Genres = it.Genres
		}
	}
	return out
}

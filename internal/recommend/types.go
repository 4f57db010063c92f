// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"strings"
	"time"
)

// noGenresListed is the MovieLens placeholder for items without genre tags.
const noGenresListed = "(no genres listed)"

// Rating is a single explicit user rating of an item.
type Rating struct {
	// UserID identifies the rating user.
	UserID int `json:"user_id"`

	// ItemID identifies the rated movie.
	ItemID int `json:"item_id"`

	// Value is the rating on the configured scale (0.5-5.0 by default).
	Value float64 `json:"rating"`

	// Timestamp is the rating time in epoch seconds.
	Timestamp int64 `json:"timestamp"`
}

// Time returns the rating timestamp in UTC.
func (r Rating) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

// Item is the reference metadata for a movie.
type Item struct {
	// ID is the movie identifier.
	ID int `json:"id"`

	// Title is the display title, usually with a trailing "(YYYY)".
	Title string `json:"title"`

	// Genres is the set of genre tags.
	Genres []string `json:"genres"`

	// Year is the release year. Zero when unknown.
	Year int `json:"year,omitempty"`
}

// HasGenre reports whether the item carries the given genre tag.
func (i *Item) HasGenre(genre string) bool {
	for _, g := range i.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// ParseGenres splits a delimiter-joined genre string.
// Empty strings and the "(no genres listed)" placeholder yield nil.
func ParseGenres(raw, delim string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == noGenresListed {
		return nil
	}
	parts := strings.Split(raw, delim)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// Recommendation is a single individual prediction.
type Recommendation struct {
	// ItemID is the recommended movie.
	ItemID int `json:"item_id"`

	// Title, Genres and Year are copied from metadata when the item is known.
	Title  string   `json:"title,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Year   int      `json:"year,omitempty"`

	// Predicted is the mean similarity-weighted vote, rounded to 2 decimals.
	Predicted float64 `json:"predicted_rating"`

	// Support is the number of neighbors that voted for the item.
	Support int `json:"support"`

	// Confidence is Support divided by the neighbor pool size.
	Confidence float64 `json:"confidence"`

	// Reason is a human-readable explanation.
	Reason string `json:"reason"`
}

// Strategy selects how individual predictions are combined for a group.
type Strategy string

const (
	// StrategyIntersection keeps only items every member would like.
	StrategyIntersection Strategy = "intersection"
	// StrategyWeighted averages members' predictions over the union of candidates.
	StrategyWeighted Strategy = "weighted"
	// StrategyLeastMisery scores an item by its least happy member.
	StrategyLeastMisery Strategy = "least_misery"
	// StrategyHybrid boosts intersection items and backfills with weighted ones.
	StrategyHybrid Strategy = "hybrid"
)

// Strategy tags reported on hybrid results.
const (
	TagHybridIntersection = "hybrid_intersection"
	TagHybridWeighted     = "hybrid_weighted"
)

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a one-line rationale used in group analysis.
func (s Strategy) Description() string {
	switch s {
	case StrategyIntersection:
		return "High compatibility, focus on shared preferences"
	case StrategyWeighted:
		return "Moderate compatibility, balance individual preferences"
	case StrategyLeastMisery:
		return "Low compatibility, avoid movies anyone would dislike"
	case StrategyHybrid:
		return "Shared favorites first, then balanced picks"
	default:
		return ""
	}
}

// ParseStrategy maps a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyIntersection, StrategyWeighted, StrategyLeastMisery, StrategyHybrid:
		return s, nil
	default:
		return "", newError(ErrInvalidStrategy, "strategy %q", name)
	}
}

// JointRecommendation is a group-level recommendation.
type JointRecommendation struct {
	Recommendation

	// JointScore is the aggregated group score, rounded to 2 decimals.
	JointScore float64 `json:"joint_score"`

	// UserScores maps each member to the prediction used for aggregation.
	// Members without a prediction carry the neutral fill value.
	UserScores map[int]float64 `json:"user_scores"`

	// Strategy is the tag of the strategy that produced this result.
	Strategy string `json:"method"`

	// HybridScore is set only for hybrid results.
	HybridScore float64 `json:"hybrid_score,omitempty"`

	// Explanation is a human-readable group explanation.
	Explanation string `json:"explanation"`
}

// SimilarityLevel is a qualitative bucket for cosine similarity.
type SimilarityLevel int

const (
	SimilarityVeryLow SimilarityLevel = iota
	SimilarityLow
	SimilarityModerate
	SimilarityHigh
	SimilarityVeryHigh
)

// String returns a human-readable label.
func (l SimilarityLevel) String() string {
	switch l {
	case SimilarityVeryHigh:
		return "very high"
	case SimilarityHigh:
		return "high"
	case SimilarityModerate:
		return "moderate"
	case SimilarityLow:
		return "low"
	default:
		return "very low"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l SimilarityLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ClassifySimilarity buckets a cosine similarity. Lower bounds are inclusive.
func ClassifySimilarity(cosine float64) SimilarityLevel {
	switch {
	case cosine >= 0.8:
		return SimilarityVeryHigh
	case cosine >= 0.6:
		return SimilarityHigh
	case cosine >= 0.4:
		return SimilarityModerate
	case cosine >= 0.2:
		return SimilarityLow
	default:
		return SimilarityVeryLow
	}
}

// SimilarityReport compares two users over their co-rated items.
type SimilarityReport struct {
	UserA int `json:"user_a"`
	UserB int `json:"user_b"`

	// Cosine is the cosine similarity over co-rated items.
	Cosine float64 `json:"cosine_similarity"`

	// Pearson is the Pearson correlation over co-rated items.
	// Zero when either side has no variance.
	Pearson float64 `json:"pearson_correlation"`

	// CoRated is the number of items both users rated.
	CoRated int `json:"common_movies"`

	// MeanAbsDiff is the mean absolute rating gap on co-rated items.
	MeanAbsDiff float64 `json:"avg_rating_difference"`

	// Compatibility blends cosine with the rating gap. At most 1.
	Compatibility float64 `json:"compatibility_score"`

	// Level is the qualitative bucket of Cosine.
	Level SimilarityLevel `json:"similarity_level"`
}

// GenreAffinity is a user's mean rating for a genre.
type GenreAffinity struct {
	Genre string  `json:"genre"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// RatingCount is one histogram bin.
type RatingCount struct {
	Value float64 `json:"rating"`
	Count int     `json:"count"`
}

// ActivityBucket counts ratings in one hour-of-day or weekday bucket.
type ActivityBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RatedItem is one of a user's highest rated items.
type RatedItem struct {
	ItemID int      `json:"item_id"`
	Title  string   `json:"title,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Rating float64  `json:"rating"`
}

// UserProfile summarizes a user's rating history.
type UserProfile struct {
	UserID       int     `json:"user_id"`
	TotalRatings int     `json:"total_ratings"`
	Mean         float64 `json:"avg_rating"`

	// Variance and StdDev are sample statistics (n−1). Zero for a single rating.
	Variance float64 `json:"rating_variance"`
	StdDev   float64 `json:"rating_std"`

	// Distribution counts ratings per value, ascending by value.
	Distribution []RatingCount `json:"rating_distribution"`

	// FavoriteGenres holds at most five genres with at least three ratings,
	// ordered by mean descending.
	FavoriteGenres []GenreAffinity `json:"favorite_genres"`

	// ActiveHours and ActiveDays hold the three busiest buckets (UTC).
	ActiveHours []ActivityBucket `json:"most_active_hours"`
	ActiveDays  []ActivityBucket `json:"most_active_days"`

	// TopItems holds the ten highest rated items.
	TopItems []RatedItem `json:"top_movies"`
}

// GenreSet returns the favorite genres as a set.
func (p *UserProfile) GenreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.FavoriteGenres))
	for _, g := range p.FavoriteGenres {
		set[g.Genre] = struct{}{}
	}
	return set
}

// Harmony is the qualitative compatibility of a group.
type Harmony string

const (
	HarmonyHigh    Harmony = "high"
	HarmonyMedium  Harmony = "medium"
	HarmonyLow     Harmony = "low"
	HarmonyUnknown Harmony = "unknown"
)

// GroupAnalysis describes how well a group's tastes line up.
type GroupAnalysis struct {
	GroupSize int `json:"group_size"`

	// CommonGenres and AllGenres are sorted.
	CommonGenres []string `json:"common_genres"`
	AllGenres    []string `json:"all_preferred_genres"`

	// GenreOverlap is len(CommonGenres)/len(AllGenres)*100, one decimal.
	GenreOverlap float64 `json:"genre_overlap_percentage"`

	// Pairs holds every pair that had enough co-rated items.
	Pairs []SimilarityReport `json:"pairwise_similarities"`

	Compatibility     float64  `json:"group_compatibility_score"`
	Harmony           Harmony  `json:"group_harmony_level"`
	SuggestedStrategy Strategy `json:"recommendation_strategy"`
}

// UserPrediction is one member's view of an item in an explanation.
type UserPrediction struct {
	UserID int `json:"user_id"`

	// InTop is false when the item is not in the member's top recommendations.
	InTop      bool    `json:"in_top_recommendations"`
	Predicted  float64 `json:"predicted_rating,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Reason     string  `json:"reason"`
}

// Explanation details why an item suits a group.
type Explanation struct {
	Item        Item             `json:"item"`
	Predictions []UserPrediction `json:"individual_predictions"`
	Factors     []string         `json:"group_factors"`
}

// FeatureVector is a sparse content feature vector keyed by token.
type FeatureVector map[string]float64

// FeatureProvider computes content features for items.
type FeatureProvider interface {
	// Name returns the provider name.
	Name() string

	// Features returns one vector per item ID.
	Features(items []Item) map[int]FeatureVector
}

// GroupReranker post-processes ordered group results.
type GroupReranker interface {
	// Name returns the reranker name.
	Name() string

	// Rerank returns at most n results. Input order is the relevance order.
	Rerank(recs []JointRecommendation, features map[int]FeatureVector, n int) []JointRecommendation
}

// Status describes the currently published snapshot.
type Status struct {
	Ready     bool      `json:"ready"`
	Version   int64     `json:"version"`
	Users     int       `json:"users"`
	Items     int       `json:"items"`
	Ratings   int       `json:"ratings"`
	BuiltAt   time.Time `json:"built_at"`
	Source    string    `json:"source,omitempty"`
	Refreshes int64     `json:"refreshes"`
}

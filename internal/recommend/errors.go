// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; returned errors wrap
// them with the offending identifiers.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrInsufficientOverlap = errors.New("insufficient co-rated items")
	ErrEmptyDataset        = errors.New("empty dataset")
	ErrInvalidStrategy     = errors.New("invalid strategy")
	ErrSelfSimilarity      = errors.New("similarity of a user with itself")
	ErrInsufficientGroup   = errors.New("not enough valid user profiles")
	ErrNoSnapshot          = errors.New("no snapshot loaded")
	ErrRefreshInProgress   = errors.New("refresh already in progress")
)

// newError wraps a sentinel with formatted context.
func newError(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// ErrorKind returns a short, stable label for err, suitable as a metric label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, ErrInsufficientOverlap):
		return "insufficient_overlap"
	case errors.Is(err, ErrEmptyDataset):
		return "empty_dataset"
	case errors.Is(err, ErrInvalidStrategy):
		return "invalid_strategy"
	case errors.Is(err, ErrSelfSimilarity):
		return "self_similarity"
	case errors.Is(err, ErrInsufficientGroup):
		return "insufficient_group"
	case errors.Is(err, ErrNoSnapshot):
		return "no_snapshot"
	case errors.Is(err, ErrRefreshInProgress):
		return "refresh_in_progress"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

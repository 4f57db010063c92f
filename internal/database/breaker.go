// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

var _ recommend.DataProvider = (*BreakerProvider)(nil)

// BreakerProvider wraps a DataProvider with a circuit breaker.
// While the circuit is open loads fail fast with ErrSourceUnavailable and the
// engine keeps serving its current snapshot.
//
// The breaker uses real time (via sony/gobreaker) for its open timeout. Tests
// that need the half-open transition use a short OpenTimeout.
type BreakerProvider struct {
	source recommend.DataProvider
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerProvider creates a breaker named name around source.
// The circuit opens after cfg.MaxFailures consecutive failures and allows a
// single trial request after cfg.OpenTimeout.
func NewBreakerProvider(name string, source recommend.DataProvider, cfg config.BreakerConfig) *BreakerProvider {
	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= maxFailures
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A canceled load says nothing about the source's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerProvider{
		source: source,
		cb:     cb,
		name:   name,
	}
}

// GetRatings loads ratings through the breaker.
func (bp *BreakerProvider) GetRatings(ctx context.Context) ([]recommend.Rating, error) {
	return castResult[[]recommend.Rating](bp.execute(func() (interface{}, error) {
		return bp.source.GetRatings(ctx)
	}))
}

// GetItems loads item metadata through the breaker.
func (bp *BreakerProvider) GetItems(ctx context.Context) ([]recommend.Item, error) {
	return castResult[[]recommend.Item](bp.execute(func() (interface{}, error) {
		return bp.source.GetItems(ctx)
	}))
}

// State returns the breaker state as closed, half-open or open.
func (bp *BreakerProvider) State() string {
	return stateToString(bp.cb.State())
}

// execute wraps a source call with circuit breaker protection
func (bp *BreakerProvider) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := bp.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(bp.name, "rejected").Inc()
			logging.Warn().Str("breaker", bp.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(bp.name, "failure").Inc()
		counts := bp.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(bp.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(bp.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(bp.name).Set(0)

	return result, nil
}

// castResult type-asserts the circuit breaker result
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

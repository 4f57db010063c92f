// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"errors"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// EngineObserver exports recommendation engine telemetry to Prometheus.
type EngineObserver struct{}

var _ recommend.Observer = EngineObserver{}

// ObserveOperation records query latency and, on failure, the error kind.
func (EngineObserver) ObserveOperation(op string, duration time.Duration, err error) {
	RecordOperation(op, recommend.ErrorKind(err), duration)
}

// ObserveSnapshot updates the snapshot gauges.
func (EngineObserver) ObserveSnapshot(status recommend.Status) {
	SetSnapshot(status.Version, status.Users, status.Items, status.Ratings, status.BuiltAt)
}

// ObserveRefresh records a refresh attempt. A refresh rejected because
// another one is running counts as skipped.
func (EngineObserver) ObserveRefresh(duration time.Duration, err error) {
	switch {
	case err == nil:
		RecordRefresh("success", duration)
	case errors.Is(err, recommend.ErrRefreshInProgress):
		RecordRefresh("skipped", duration)
	default:
		RecordRefresh("failure", duration)
	}
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// StatusSource reports the engine's snapshot status. Satisfied by
// *recommend.Engine.
type StatusSource interface {
	Status() recommend.Status
}

// Refresher triggers a snapshot refresh. Satisfied by
// *services.SnapshotService.
type Refresher interface {
	RefreshNow(ctx context.Context) error
}

// BreakerStater reports a circuit breaker state ("closed", "half-open",
// "open"). Satisfied by *database.BreakerProvider.
type BreakerStater interface {
	State() string
}

// VersionLister reports the newest persisted snapshot version. Satisfied by
// *storage.Store.
type VersionLister interface {
	LatestVersion() (int64, bool)
}

// Handler serves the ops endpoints. Optional collaborators may be nil.
type Handler struct {
	status    StatusSource
	refresher Refresher
	breaker   BreakerStater
	store     VersionLister
	startTime time.Time
}

// HandlerOption configures optional Handler collaborators.
type HandlerOption func(*Handler)

// WithRefresher enables POST /api/v1/snapshot/refresh.
func WithRefresher(r Refresher) HandlerOption {
	return func(h *Handler) { h.refresher = r }
}

// WithBreaker adds the data-source breaker state to the snapshot status.
func WithBreaker(b BreakerStater) HandlerOption {
	return func(h *Handler) { h.breaker = b }
}

// WithStore adds the newest persisted version to the snapshot status.
func WithStore(s VersionLister) HandlerOption {
	return func(h *Handler) { h.store = s }
}

// NewHandler creates the ops handler.
func NewHandler(status StatusSource, opts ...HandlerOption) *Handler {
	h := &Handler{status: status, startTime: time.Now()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SnapshotStatus is the body of GET /api/v1/snapshot.
type SnapshotStatus struct {
	recommend.Status
	BreakerState     string `json:"breaker_state,omitempty"`
	PersistedVersion *int64 `json:"persisted_version,omitempty"`
}

func (h *Handler) snapshotStatus() SnapshotStatus {
	out := SnapshotStatus{Status: h.status.Status()}
	if h.breaker != nil {
		out.BreakerState = h.breaker.State()
	}
	if h.store != nil {
		if v, ok := h.store.LatestVersion(); ok {
			out.PersistedVersion = &v
		}
	}
	return out
}

// HealthLive reports that the process is up, regardless of snapshot state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	newResponder(w, r).ok(http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 once a snapshot is serving and 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.status.Status()
	body := map[string]interface{}{
		"ready":   status.Ready,
		"version": status.Version,
	}
	if !status.Ready {
		newResponder(w, r).fail(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			recommend.ErrNoSnapshot.Error(), body)
		return
	}
	newResponder(w, r).ok(http.StatusOK, body)
}

// Snapshot returns the current snapshot status.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	newResponder(w, r).ok(http.StatusOK, h.snapshotStatus())
}

// RefreshSnapshot runs a refresh and returns the resulting status.
// A refresh that is already running yields 409.
func (h *Handler) RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	rw := newResponder(w, r)
	if h.refresher == nil {
		rw.fail(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "manual refresh is not configured", nil)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("manual snapshot refresh requested")

	err := h.refresher.RefreshNow(r.Context())
	switch {
	case err == nil:
		rw.ok(http.StatusOK, h.snapshotStatus())
	case errors.Is(err, recommend.ErrRefreshInProgress):
		rw.fail(http.StatusConflict, ErrCodeConflict, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		rw.fail(http.StatusGatewayTimeout, ErrCodeTimeout, "refresh timed out", nil)
	default:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("manual snapshot refresh failed")
		rw.fail(http.StatusBadGateway, ErrCodeRefreshFailed, err.Error(), h.snapshotStatus())
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	newResponder(w, r).fail(http.StatusNotFound, ErrCodeNotFound, "no route for "+r.URL.Path, nil)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	newResponder(w, r).fail(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// RouterConfig holds router settings.
type RouterConfig struct {
	// RefreshRateLimit is the number of manual refreshes allowed per
	// RefreshRateWindow, keyed by client IP.
	// Default: 6
	RefreshRateLimit int

	// Default: 1m
	RefreshRateWindow time.Duration

	// Logger receives access log lines.
	Logger zerolog.Logger
}

// NewRouter builds the ops router.
//
//	GET  /api/v1/health/live
//	GET  /api/v1/health/ready
//	GET  /api/v1/snapshot
//	POST /api/v1/snapshot/refresh
//	GET  /metrics
//
//nolint:gocritic // RouterConfig holds a zerolog.Logger and is passed by value
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.RefreshRateLimit <= 0 {
		cfg.RefreshRateLimit = 6
	}
	if cfg.RefreshRateWindow <= 0 {
		cfg.RefreshRateWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Get("/snapshot", h.Snapshot)
		r.With(refreshLimiter(cfg)).Post("/snapshot/refresh", h.RefreshSnapshot)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func refreshLimiter(cfg RouterConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RefreshRateLimit,
		cfg.RefreshRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit("/api/v1/snapshot/refresh")
			newResponder(w, r).fail(http.StatusTooManyRequests, ErrCodeTooManyRequests, "refresh rate limit exceeded", nil)
		}),
	)
}

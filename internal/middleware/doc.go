// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the HTTP middleware used by the ops API.

  - RequestID: X-Request-ID propagation into chi and logging contexts
  - AccessLog: one zerolog line per request, probes at debug level
  - PrometheusMetrics: api_requests_total, api_request_duration_seconds and
    api_active_requests, labelled by chi route pattern

Order matters; RequestID must run first:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logging.WithComponent("api")))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware

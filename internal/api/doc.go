// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api serves the Cinematch ops endpoints with chi.

The router exposes probes, snapshot status, a manual refresh trigger and the
Prometheus registry. It does not serve recommendations.

	GET  /api/v1/health/live       200 while the process runs
	GET  /api/v1/health/ready      200 once a snapshot is serving, else 503
	GET  /api/v1/snapshot          version, counts, built_at, breaker state
	POST /api/v1/snapshot/refresh  synchronous refresh; 409 while one runs
	GET  /metrics                  promhttp handler

Every JSON body uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Failures set success to false and add {"error": {"code", "message"}}.

Manual refreshes are limited per client IP with go-chi/httprate; rejections
increment api_rate_limit_hits_total.
*/
package api

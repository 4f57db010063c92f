// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/logging"
)

// AccessLog logs one line per request and stores logger in the request
// context, so handlers get it back with request IDs through logging.Ctx.
// It must run after RequestID.
// Health probes are logged at debug level.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.ContextWithLogger(r.Context(), logger)
			reqLogger := logging.Ctx(ctx)

			start := time.Now()
			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r.WithContext(ctx))

			event := reqLogger.Info()
			switch {
			case wrapper.statusCode >= http.StatusInternalServerError:
				event = reqLogger.Error()
			case isProbe(r.URL.Path):
				event = reqLogger.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}

func isProbe(path string) bool {
	return path == "/api/v1/health/live" || path == "/api/v1/health/ready" || path == "/metrics"
}

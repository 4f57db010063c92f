// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging provides the zerolog-based structured logging used across
// Cinematch.
//
// The package holds one global logger configured at startup from the
// logging section of the application config. Components derive child
// loggers with a component field and pass them to constructors by value:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	engine, err := recommend.NewEngine(cfg, logging.WithComponent("recommend"))
//
// # Request Context
//
// HTTP handlers attach a request ID (and optionally a correlation ID) to the
// request context. Ctx returns a logger carrying whatever IDs are present:
//
//	logging.Ctx(r.Context()).Info().Msg("snapshot refresh requested")
//
// # Supervisor Integration
//
// Suture reports supervisor events through sutureslog, which expects a
// *slog.Logger. NewSlogLogger returns one that writes through zerolog so
// supervisor events share the same output and format:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Configuration
//
// Environment variables (mapped by the config package):
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
package logging

// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for Cinematch components.

SnapshotService keeps the engine snapshot current:
  - optional refresh on startup
  - scheduled refresh every RefreshInterval (0 disables the schedule)
  - persistence of each new version to a SnapshotStore
  - restore of the newest persisted snapshot when the engine starts empty

RefreshNow is also the entry point for manual refreshes from the API. It
returns recommend.ErrRefreshInProgress when a refresh is already running.

HTTPServerService runs an *http.Server and shuts it down gracefully when the
supervisor cancels its context.

Every wrapper implements fmt.Stringer so suture logs name it.
*/
package services

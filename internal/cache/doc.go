// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides a generic, thread-safe LRU cache with optional TTL.

The recommendation engine uses it to memoize each user's nearest-neighbor
list per snapshot version:

	neighbors := cache.NewLRU[neighborKey, []neighbor](cfg.Cache.NeighborEntries, 0)
	if nbs, ok := neighbors.Get(neighborKey{version, userID}); ok {
	    return nbs
	}

Cached values are shared between callers and must not be mutated.
*/
package cache

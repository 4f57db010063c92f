// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived parts of Cinematch under suture v4.

# Tree Layout

	RootSupervisor ("cinematch")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotService (refresh schedule, persistence, restore)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (health, snapshot status, metrics)

A crash in the refresh loop is restarted inside the data layer. The HTTP
server keeps answering from the engine's current snapshot while that happens.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSnapshotService(engine, store, snapCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Restart Behavior

TreeConfig carries suture's failure counter settings. Zero values fall back
to suture's defaults (threshold 5, decay 30s, backoff 15s, shutdown 10s).

A service that returns nil is not restarted. A service that returns an error
is restarted, with backoff once the decayed failure count exceeds the
threshold.

Supervisor events are logged through sutureslog into the zerolog pipeline
(see logging.NewSlogLogger). UnstoppedServiceReport lists services that
ignored cancellation during shutdown.

The recommendation engine and DuckDB are not supervised. Both are in-process
libraries; the engine publishes immutable snapshots and survives any number
of refresh restarts.
*/
package supervisor

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package supervisor runs the long-lived FizzStats services under suture v4.

The tree has two layers so that a failing background task never takes the
HTTP listener down with it:

	RootSupervisor ("fizzstats")
	├── DataSupervisor ("data-layer")
	│   ├── buffer-flush  (periodic flush of buffered requests)
	│   └── journal-gc    (value log compaction, if the journal is enabled)
	└── APISupervisor ("api-layer")
	    └── http-server

Services return an error to be restarted, ctx.Err() on shutdown, and
suture.ErrDoNotRestart when they have nothing to do. Supervisor events are
logged through sutureslog, which takes the slog adapter from the logging
package so they end up in the same zerolog stream as everything else.

The DuckDB store, the journal and the engine are not services. They are
opened before the tree starts and closed by main after it stops, in reverse
order.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewFlushService(eng, cfg.Buffer.FlushInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

If shutdown hangs, UnstoppedServiceReport lists the services that did not
return within ShutdownTimeout.
*/
package supervisor

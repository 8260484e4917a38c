// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package main is the entry point for the FizzStats server.

FizzStats serves generalized FizzBuzz sequences over HTTP and counts how
often each parameter set is requested. The most requested sets are reported
by the statistics endpoint and kept in a small in-memory cache.

# Application Architecture

	RootSupervisor ("fizzstats")
	├── DataSupervisor ("data-layer")
	│   ├── buffer-flush (if BUFFER_FLUSH_INTERVAL > 0)
	│   └── journal-gc   (if JOURNAL_ENABLED)
	└── APISupervisor ("api-layer")
	    └── http-server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Counting store: DuckDB
 4. Journal: BadgerDB (optional)
 5. Engine: validation, caches, write buffer, worker pool
 6. HTTP server: Chi router and middleware
 7. Supervisor tree: Suture v4

Shutdown runs in reverse. The supervisor stops the HTTP server and the
data layer services first, then the engine flushes what is still buffered,
then the journal and the store are closed.

# Configuration

The environment names of the earlier fizzbuzz server are still accepted:

	FIZZBUZZ_SERVER_PORT
	FIZZBUZZ_SERVER_DB_NAME
	FIZZBUZZ_QUEUE_MAX_SIZE
	FIZZBUZZ_STATS_CACHE_LIFE_TIME   (seconds)

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. In-flight requests get
SHUTDOWN_TIMEOUT to finish; buffered requests are counted before the
process exits.
*/
package main

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package config loads and validates fizzstats configuration.

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, or config.yaml / /etc/fizzstats/config.yaml)
 3. Environment variables

# Environment Variables

The variable names used by earlier fizzbuzz deployments keep working:

	FIZZBUZZ_SERVER_PORT            server.port          (default 8888)
	FIZZBUZZ_SERVER_DB_NAME         database.path
	FIZZBUZZ_QUEUE_MAX_SIZE         buffer.threshold     (default 100)
	FIZZBUZZ_STATS_CACHE_LIFE_TIME  stats.ttl            (seconds, default 86400)

Other settings use descriptive names, for example HTTP_HOST, DUCKDB_MAX_MEMORY,
BUFFER_FLUSH_INTERVAL, JOURNAL_ENABLED, STATS_TOP_N, SEQUENCE_MAX_LIMIT,
WORKER_POOL_SIZE, RATE_LIMIT_REQUESTS, CORS_ORIGINS and LOG_LEVEL. See
envMappings for the full table.

Duration settings accept Go duration strings ("90s", "5m") or a bare number of
seconds ("86400").

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Port)
*/
package config

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package database is the DuckDB-backed counting store.

Every distinct request identity owns one row of the requests table:

	CREATE TABLE requests (
	    id         TEXT PRIMARY KEY,   -- request identity
	    sequence   TEXT NOT NULL,      -- rendered sequence, written once
	    occurrence BIGINT NOT NULL     -- number of recorded requests
	)

# Counting

Increments are single atomic upserts:

	INSERT INTO requests (id, sequence, occurrence) VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET occurrence = requests.occurrence + EXCLUDED.occurrence

The stored sequence is never overwritten. UpsertIncrementBatch first
coalesces duplicate identities in a batch into one upsert carrying the
duplicate count, then applies all upserts in a single transaction, so a batch
is either fully counted or not counted at all.

DuckDB uses optimistic concurrency; two transactions touching the same row
conflict and one of them fails. Single upserts take a per-identity
in-process lock and both paths retry conflicts with exponential backoff.

# Ranking

TopN orders by occurrence descending with ties broken by identity ascending.
The occurrence column has no index. DuckDB rejects ON CONFLICT DO UPDATE on
indexed columns, and ORDER BY ... LIMIT runs on its Top-N operator anyway.

# Lifecycle

Close runs CHECKPOINT before closing so the DuckDB WAL is folded into the
database file and the next start does not replay it.
*/
package database

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/metrics"
	"github.com/tomtom215/fizzstats/internal/models"
)

const createRequestsTable = `
CREATE TABLE IF NOT EXISTS requests (
	id         TEXT PRIMARY KEY,
	sequence   TEXT NOT NULL,
	occurrence BIGINT NOT NULL DEFAULT 0
)`

const createOccurrenceIndex = `CREATE INDEX IF NOT EXISTS idx_occurence ON requests(occurrence)`

const upsertIncrementSQL = `
INSERT INTO requests (id, sequence, occurrence) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET occurrence = requests.occurrence + EXCLUDED.occurrence`

// UpsertIncrement counts one request for identity, creating the row with
// sequence when it does not exist yet. The stored sequence is never replaced.
func (db *DB) UpsertIncrement(ctx context.Context, identity, sequence string) error {
	if db.conn == nil {
		return ErrNilConnection
	}

	mu := db.acquireIDLock(identity)
	defer releaseIDLock(mu)

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt < db.maxRetries; attempt++ {
		_, lastErr = db.conn.ExecContext(ctx, upsertIncrementSQL, identity, sequence, 1)
		if lastErr == nil {
			metrics.RecordDBQuery("upsert_increment", time.Since(start), nil)
			return nil
		}

		if isInternalError(lastErr) || !isTransactionConflict(lastErr) {
			break
		}

		metrics.DBTransactionRetries.Inc()
		logging.Debug().
			Str("identity", identity).
			Int("attempt", attempt+1).
			Err(lastErr).
			Msg("Transaction conflict on upsert, retrying")

		if err := db.backoff(ctx, attempt); err != nil {
			lastErr = err
			break
		}
	}

	metrics.RecordDBQuery("upsert_increment", time.Since(start), lastErr)
	return fmt.Errorf("failed to increment %q: %w", identity, lastErr)
}

// coalesced is one distinct identity of a batch and its duplicate count
type coalesced struct {
	identity string
	sequence string
	count    int64
}

// coalesce merges duplicate identities; the first sequence seen wins.
// Output is sorted by identity so concurrent batches touch rows in the same order.
func coalesce(entries []models.BufferedRequest) []coalesced {
	index := make(map[string]int, len(entries))
	out := make([]coalesced, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Identity]; ok {
			out[i].count++
			continue
		}
		index[e.Identity] = len(out)
		out = append(out, coalesced{identity: e.Identity, sequence: e.Sequence, count: 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].identity < out[j].identity })
	return out
}

// UpsertIncrementBatch counts every entry in a single transaction.
// Duplicate identities are merged first, so n copies of one identity add n
// with one statement. On error nothing from the batch is counted.
func (db *DB) UpsertIncrementBatch(ctx context.Context, entries []models.BufferedRequest) error {
	if len(entries) == 0 {
		return nil
	}
	if db.conn == nil {
		return ErrNilConnection
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows := coalesce(entries)
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt < db.maxRetries; attempt++ {
		lastErr = db.applyBatch(ctx, rows)
		if lastErr == nil {
			metrics.RecordDBQuery("upsert_batch", time.Since(start), nil)
			logging.Debug().
				Int("entries", len(entries)).
				Int("identities", len(rows)).
				Dur("duration", time.Since(start)).
				Msg("Batch counted")
			return nil
		}

		if isInternalError(lastErr) || !isTransactionConflict(lastErr) {
			break
		}

		metrics.DBTransactionRetries.Inc()
		if err := db.backoff(ctx, attempt); err != nil {
			lastErr = err
			break
		}
	}

	metrics.RecordDBQuery("upsert_batch", time.Since(start), lastErr)
	return fmt.Errorf("failed to count batch of %d: %w", len(entries), lastErr)
}

// applyBatch runs one transaction attempt
func (db *DB) applyBatch(ctx context.Context, rows []coalesced) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Failed to rollback transaction")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertIncrementSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, r := range rows {
		if _, err = stmt.ExecContext(ctx, r.identity, r.sequence, r.count); err != nil {
			return fmt.Errorf("failed to upsert %q: %w", r.identity, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get returns the record for identity. found is false when no row exists.
func (db *DB) Get(ctx context.Context, identity string) (rec models.RequestRecord, found bool, err error) {
	if db.conn == nil {
		return models.RequestRecord{}, false, ErrNilConnection
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rec.Identity = identity
	err = db.conn.QueryRowContext(ctx,
		`SELECT sequence, occurrence FROM requests WHERE id = ?`, identity,
	).Scan(&rec.Sequence, &rec.Occurrence)

	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get", time.Since(start), nil)
		return models.RequestRecord{}, false, nil
	}
	metrics.RecordDBQuery("get", time.Since(start), err)
	if err != nil {
		return models.RequestRecord{}, false, fmt.Errorf("failed to get %q: %w", identity, err)
	}
	return rec, true, nil
}

// TopN returns at most n records, most requested first, ties by identity ascending.
func (db *DB) TopN(ctx context.Context, n int) ([]models.RequestRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidTopN
	}
	if db.conn == nil {
		return nil, ErrNilConnection
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, sequence, occurrence
		FROM requests
		ORDER BY occurrence DESC, id ASC
		LIMIT ?`, n)
	if err != nil {
		metrics.RecordDBQuery("top_n", time.Since(start), err)
		return nil, fmt.Errorf("failed to query top %d: %w", n, err)
	}
	defer closeWithLog(rows, "rows")

	records := make([]models.RequestRecord, 0, n)
	for rows.Next() {
		var r models.RequestRecord
		if err := rows.Scan(&r.Identity, &r.Sequence, &r.Occurrence); err != nil {
			metrics.RecordDBQuery("top_n", time.Since(start), err)
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	err = rows.Err()
	metrics.RecordDBQuery("top_n", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// Count returns the number of distinct identities stored
func (db *DB) Count(ctx context.Context) (int64, error) {
	if db.conn == nil {
		return 0, ErrNilConnection
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return n, nil
}

// Clear removes every record
func (db *DB) Clear(ctx context.Context) error {
	if db.conn == nil {
		return ErrNilConnection
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM requests`)
	metrics.RecordDBQuery("clear", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to clear requests: %w", err)
	}
	logging.Info().Msg("Counting store cleared")
	return nil
}

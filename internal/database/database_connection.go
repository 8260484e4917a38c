// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package database

import (
	"context"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"time"
)

// configureConnectionPool sizes the pool for parallel reads
//   - MaxOpenConns: CPU count
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 1 hour
//   - ConnMaxIdleTime: 5 minutes
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(1 * time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// defaultQueryTimeout bounds queries whose caller context has no deadline
const defaultQueryTimeout = 30 * time.Second

// ensureContext adds the default timeout when ctx is nil or has no deadline
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// isTransactionConflict reports DuckDB optimistic concurrency failures, which are safe to retry
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update") ||
		strings.Contains(msg, "conflict on tuple")
}

// isInternalError reports DuckDB internal errors, which must not be retried
func isInternalError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "INTERNAL Error")
}

// idLockStripes is the number of mutexes identities hash onto.
const idLockStripes = 256

// acquireIDLock serializes single upserts of the same identity within the process.
// Identities share striped mutexes so the lock table stays bounded.
func (db *DB) acquireIDLock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	mu := &db.idLocks[h.Sum32()%idLockStripes]
	mu.Lock()
	return mu
}

func releaseIDLock(mu *sync.Mutex) {
	mu.Unlock()
}

// backoff waits for the retry delay of attempt, or until ctx is done
func (db *DB) backoff(ctx context.Context, attempt int) error {
	delay := db.baseBackoff * time.Duration(1<<uint(attempt))
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

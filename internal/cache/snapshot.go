// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/fizzstats/internal/metrics"
	"github.com/tomtom215/fizzstats/internal/models"
)

// Loader produces a fresh statistics result.
type Loader func(ctx context.Context) ([]models.RequestRecord, error)

// Snapshot caches a statistics result for a fixed lifetime.
type Snapshot struct {
	load  Loader
	ttl   time.Duration
	clock clockwork.Clock
	group singleflight.Group

	mu        sync.RWMutex
	records   []models.RequestRecord
	expiresAt time.Time
	valid     bool
	gen       uint64 // bumped by Invalidate

	onRefresh func([]models.RequestRecord)
}

// SnapshotOption configures a Snapshot.
type SnapshotOption func(*Snapshot)

// WithClock sets the clock used for expiry. Defaults to the real clock.
func WithClock(clock clockwork.Clock) SnapshotOption {
	return func(s *Snapshot) {
		s.clock = clock
	}
}

// WithRefreshHook registers fn to run after each successful refresh, before
// waiting callers are released. fn runs under the snapshot lock and must not
// call back into the Snapshot.
func WithRefreshHook(fn func([]models.RequestRecord)) SnapshotOption {
	return func(s *Snapshot) {
		s.onRefresh = fn
	}
}

// NewSnapshot creates a snapshot that calls load when empty or expired.
// A ttl of zero refreshes on every call.
func NewSnapshot(load Loader, ttl time.Duration, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{
		load:  load,
		ttl:   ttl,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached result while it is fresh, otherwise refreshes it.
// Callers must not modify the returned slice.
func (s *Snapshot) Get(ctx context.Context) ([]models.RequestRecord, error) {
	if records, ok := s.fresh(); ok {
		metrics.SnapshotHits.Inc()
		return records, nil
	}

	v, err, _ := s.group.Do("snapshot", func() (interface{}, error) {
		// Another caller may have refreshed while this one waited.
		if records, ok := s.fresh(); ok {
			return records, nil
		}
		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()
		// The lifetime counts from the request that triggered the refresh.
		loadedAt := s.clock.Now()

		// The refresh is shared; one caller giving up must not fail the others.
		records, err := s.load(context.WithoutCancel(ctx))
		metrics.RecordSnapshotRefresh(err)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		// An Invalidate during the load means records may predate it.
		if s.gen != gen {
			return records, nil
		}
		s.records = records
		s.expiresAt = loadedAt.Add(s.ttl)
		s.valid = true
		if s.onRefresh != nil {
			s.onRefresh(records)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.RequestRecord), nil
}

// Invalidate forces the next Get to refresh.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.records = nil
	s.valid = false
	s.gen++
	s.mu.Unlock()
}

// Age returns how long ago the current result was loaded and whether there is one.
func (s *Snapshot) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return 0, false
	}
	return s.clock.Since(s.expiresAt.Add(-s.ttl)), true
}

func (s *Snapshot) fresh() ([]models.RequestRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid || !s.clock.Now().Before(s.expiresAt) {
		return nil, false
	}
	return s.records, true
}

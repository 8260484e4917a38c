// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/fizzstats/internal/logging"
)

// defaultTaskTimeout bounds a single run of a periodic task.
const defaultTaskTimeout = 30 * time.Second

// Flusher counts buffered requests in the store. Satisfied by *engine.Engine.
type Flusher interface {
	Flush(ctx context.Context) error
}

// GarbageCollector compacts on-disk storage. Satisfied by *journal.Journal.
type GarbageCollector interface {
	RunGC() error
}

// PeriodicService runs a task every interval.
type PeriodicService struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	task     func(ctx context.Context) error
	final    bool
	clock    clockwork.Clock

	runs     atomic.Int64
	failures atomic.Int64
}

// PeriodicOption configures a PeriodicService.
type PeriodicOption func(*PeriodicService)

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) PeriodicOption {
	return func(s *PeriodicService) {
		s.clock = c
	}
}

// WithTaskTimeout bounds each run. Default 30s.
func WithTaskTimeout(d time.Duration) PeriodicOption {
	return func(s *PeriodicService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFinalRun runs the task once more when the service stops.
func WithFinalRun() PeriodicOption {
	return func(s *PeriodicService) {
		s.final = true
	}
}

// NewPeriodicService runs task every interval. A non-positive interval makes
// Serve return suture.ErrDoNotRestart at once.
func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error, opts ...PeriodicOption) *PeriodicService {
	s := &PeriodicService{
		name:     name,
		interval: interval,
		timeout:  defaultTaskTimeout,
		task:     task,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFlushService flushes f every interval and once more on shutdown.
func NewFlushService(f Flusher, interval time.Duration, opts ...PeriodicOption) *PeriodicService {
	opts = append([]PeriodicOption{WithFinalRun()}, opts...)
	return NewPeriodicService("buffer-flush", interval, f.Flush, opts...)
}

// NewJournalGCService compacts the journal value log every interval.
func NewJournalGCService(gc GarbageCollector, interval time.Duration, opts ...PeriodicOption) *PeriodicService {
	task := func(context.Context) error { return gc.RunGC() }
	return NewPeriodicService("journal-gc", interval, task, opts...)
}

// Serve runs the task on every tick until ctx is canceled.
func (s *PeriodicService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		return suture.ErrDoNotRestart
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.final {
				s.run(context.Background())
			}
			return ctx.Err()
		case <-ticker.Chan():
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	s.runs.Add(1)
	if err := s.task(ctx); err != nil {
		s.failures.Add(1)
		logging.Warn().Err(err).Str("service", s.name).Msg("Periodic task failed, retrying next tick")
	}
}

// Runs returns how many times the task ran.
func (s *PeriodicService) Runs() int64 {
	return s.runs.Load()
}

// Failures returns how many runs returned an error.
func (s *PeriodicService) Failures() int64 {
	return s.failures.Load()
}

// String names the service in supervisor events.
func (s *PeriodicService) String() string {
	return s.name
}

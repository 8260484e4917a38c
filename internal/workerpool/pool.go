// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

// Package workerpool bounds how many blocking tasks run at once.
//
// A caller that stops waiting gets its context error back immediately. The
// task itself keeps its slot and runs to completion; its result is dropped.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/fizzstats/internal/metrics"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("worker pool is closed")

// Pool runs tasks with bounded concurrency.
type Pool struct {
	size   int
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	closed atomic.Bool

	completed atomic.Int64
	abandoned atomic.Int64
}

// Stats reports pool activity.
type Stats struct {
	Size      int
	Completed int64
	Abandoned int64
}

// New creates a pool running at most size tasks at once. A size of zero or
// less uses GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		size: size,
		sem:  semaphore.NewWeighted(int64(size)),
	}
}

// Size returns the concurrency bound.
func (p *Pool) Size() int {
	return p.size
}

// Submit runs fn on p and waits for its result or for ctx to end, whichever
// comes first. fn does not receive ctx: it must be safe to finish unobserved.
func Submit[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var zero T
	if p.closed.Load() {
		return zero, ErrClosed
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	p.wg.Add(1)
	metrics.WorkerPoolInFlight.Inc()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("task panicked: %v", r)}
			}
			metrics.WorkerPoolInFlight.Dec()
			p.completed.Add(1)
			p.sem.Release(1)
			p.wg.Done()
		}()
		v, err := fn()
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		p.abandoned.Add(1)
		metrics.WorkerPoolAbandoned.Inc()
		return zero, ctx.Err()
	}
}

// Stats returns pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Size:      p.size,
		Completed: p.completed.Load(),
		Abandoned: p.abandoned.Load(),
	}
}

// Close rejects new tasks and waits for running ones.
func (p *Pool) Close() {
	p.closed.Store(true)
	p.wg.Wait()
}

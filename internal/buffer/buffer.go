// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

// Package buffer batches served requests and counts them in the store in bulk.
//
// Record appends in memory and returns immediately. A flush takes the whole
// buffer in one swap and hands it to the store as a single batch. Flushes run
// when the buffer reaches the threshold, on demand through Flush (which the
// supervisor also calls on an interval), and once more from Close. A failed
// flush puts its entries back at the front of the buffer, so nothing is lost
// and nothing is counted twice by the process itself.
package buffer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/metrics"
	"github.com/tomtom215/fizzstats/internal/models"
)

// DefaultThreshold is the buffer size that triggers a flush.
const DefaultThreshold = 100

// flushTimeout bounds flushes that are not driven by a caller context.
const flushTimeout = 30 * time.Second

var (
	// ErrClosed is returned by Record after Close.
	ErrClosed = errors.New("write buffer is closed")

	// ErrNilStore is returned by New without a store.
	ErrNilStore = errors.New("write buffer requires a store")
)

// BatchStore counts a batch of requests atomically.
type BatchStore interface {
	UpsertIncrementBatch(ctx context.Context, entries []models.BufferedRequest) error
}

// Journal makes buffered requests durable until they are counted.
type Journal interface {
	Append(ctx context.Context, req models.BufferedRequest) (string, error)
	Remove(ctx context.Context, ids []string) error
}

// Config configures a Buffer.
type Config struct {
	// Threshold triggers an asynchronous flush once reached. Default 100.
	Threshold int

	// Journal is optional.
	Journal Journal
}

// Entry is a buffered request and its journal entry ID, if journaled.
type Entry struct {
	Request   models.BufferedRequest
	JournalID string
}

// Stats holds runtime statistics for monitoring.
type Stats struct {
	Recorded      int64         // Requests accepted by Record or Restore
	Flushed       int64         // Requests counted in the store
	FlushCount    int64         // Successful flushes
	ErrorCount    int64         // Failed flushes
	LastFlushTime time.Time     // Time of last successful flush
	LastError     string        // Error of the last failed flush, "" after a success
	Size          int           // Requests currently buffered
	AvgFlushTime  time.Duration // Mean duration of successful flushes
}

// Buffer batches served requests for the counting store.
type Buffer struct {
	store BatchStore
	cfg   Config

	mu           sync.Mutex
	entries      []Entry
	closed       bool
	asyncPending bool       // an async threshold flush is queued or running
	asyncDone    *sync.Cond // signaled on mu when asyncPending clears

	// flushMu serializes flushes so each one owns a disjoint set of entries.
	flushMu sync.Mutex

	recorded       atomic.Int64
	flushed        atomic.Int64
	flushCount     atomic.Int64
	errorCount     atomic.Int64
	totalFlushTime atomic.Int64 // nanoseconds
	lastFlushTime  atomic.Value // time.Time
	lastError      atomic.Value // string
}

// New creates a Buffer writing to store.
func New(store BatchStore, cfg Config) (*Buffer, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}

	b := &Buffer{
		store:   store,
		cfg:     cfg,
		entries: make([]Entry, 0, cfg.Threshold),
	}
	b.asyncDone = sync.NewCond(&b.mu)
	b.lastFlushTime.Store(time.Time{})
	b.lastError.Store("")
	return b, nil
}

// Threshold returns the effective flush threshold.
func (b *Buffer) Threshold() int {
	return b.cfg.Threshold
}

// Record buffers one served request. With a journal configured the request
// is journaled before Record returns.
func (b *Buffer) Record(ctx context.Context, identity, sequence string) error {
	req := models.BufferedRequest{Identity: identity, Sequence: sequence}
	entry := Entry{Request: req}

	if b.cfg.Journal != nil {
		id, err := b.cfg.Journal.Append(ctx, req)
		if err != nil {
			return fmt.Errorf("journal request: %w", err)
		}
		entry.JournalID = id
	}

	return b.add([]Entry{entry})
}

// Restore re-buffers entries recovered from the journal at startup.
func (b *Buffer) Restore(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return b.add(entries)
}

func (b *Buffer) add(entries []Entry) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.entries = append(b.entries, entries...)
	size := len(b.entries)
	spawn := size >= b.cfg.Threshold && !b.asyncPending
	if spawn {
		b.asyncPending = true
	}
	b.mu.Unlock()

	b.recorded.Add(int64(len(entries)))
	metrics.BufferRecorded.Add(float64(len(entries)))
	metrics.BufferSize.Set(float64(size))

	if spawn {
		go b.thresholdFlush()
	}
	return nil
}

// thresholdFlush runs detached from the request context: the request may
// finish before the flush does.
func (b *Buffer) thresholdFlush() {
	defer func() {
		b.mu.Lock()
		b.asyncPending = false
		b.asyncDone.Broadcast()
		b.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	b.flushLogged(ctx, "threshold")
}

// Flush counts everything buffered. A threshold flush already running is
// waited for through flushMu. It returns the store error, if any; the
// entries stay buffered.
func (b *Buffer) Flush(ctx context.Context) error {
	return b.flush(ctx)
}

// Close waits for in-flight flushes and flushes the remainder. Record fails with ErrClosed afterwards. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	// No threshold flush starts once closed is set.
	for b.asyncPending {
		b.asyncDone.Wait()
	}
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := b.flush(ctx); err != nil {
		logging.Error().Err(err).Int("unflushed", b.Len()).Msg("Final buffer flush failed")
		return err
	}
	return nil
}

// Len returns the number of buffered requests.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Stats returns current runtime statistics.
func (b *Buffer) Stats() Stats {
	var avg time.Duration
	if n := b.flushCount.Load(); n > 0 {
		avg = time.Duration(b.totalFlushTime.Load() / n)
	}
	lastFlush, _ := b.lastFlushTime.Load().(time.Time)
	lastErr, _ := b.lastError.Load().(string)

	return Stats{
		Recorded:      b.recorded.Load(),
		Flushed:       b.flushed.Load(),
		FlushCount:    b.flushCount.Load(),
		ErrorCount:    b.errorCount.Load(),
		LastFlushTime: lastFlush,
		LastError:     lastErr,
		Size:          b.Len(),
		AvgFlushTime:  avg,
	}
}

// flushLogged runs a background flush; errors are recorded in Stats and logged.
func (b *Buffer) flushLogged(ctx context.Context, trigger string) {
	if err := b.flush(ctx); err != nil {
		logging.Warn().Err(err).Str("trigger", trigger).Msg("Buffer flush failed, entries kept for retry")
	}
}

// flush counts every buffered entry in one store batch.
func (b *Buffer) flush(ctx context.Context) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	if len(b.entries) == 0 {
		b.mu.Unlock()
		return nil
	}
	taken := b.entries
	b.entries = make([]Entry, 0, b.cfg.Threshold)
	b.mu.Unlock()

	batch := make([]models.BufferedRequest, len(taken))
	for i, e := range taken {
		batch[i] = e.Request
	}

	start := time.Now()
	err := b.store.UpsertIncrementBatch(ctx, batch)
	elapsed := time.Since(start)
	metrics.RecordBufferFlush(len(batch), elapsed, err)

	if err != nil {
		b.mu.Lock()
		b.entries = append(taken, b.entries...)
		size := len(b.entries)
		b.mu.Unlock()

		metrics.BufferSize.Set(float64(size))
		b.errorCount.Add(1)
		b.lastError.Store(err.Error())
		return fmt.Errorf("flush %d requests: %w", len(batch), err)
	}

	b.flushed.Add(int64(len(batch)))
	b.flushCount.Add(1)
	b.totalFlushTime.Add(elapsed.Nanoseconds())
	b.lastFlushTime.Store(time.Now())
	b.lastError.Store("")
	metrics.BufferSize.Set(float64(b.Len()))

	logging.Debug().
		Int("count", len(batch)).
		Dur("elapsed", elapsed).
		Msg("Buffer flushed")

	b.forget(ctx, taken)
	return nil
}

// forget removes counted entries from the journal. A failure here only means
// the entries are counted again after a restart.
func (b *Buffer) forget(ctx context.Context, counted []Entry) {
	if b.cfg.Journal == nil {
		return
	}
	ids := make([]string, 0, len(counted))
	for _, e := range counted {
		if e.JournalID != "" {
			ids = append(ids, e.JournalID)
		}
	}
	if err := b.cfg.Journal.Remove(ctx, ids); err != nil {
		logging.Warn().Err(err).Int("entries", len(ids)).Msg("Failed to remove counted entries from journal")
	}
}

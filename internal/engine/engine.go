// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/fizzstats/internal/buffer"
	"github.com/tomtom215/fizzstats/internal/cache"
	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
	"github.com/tomtom215/fizzstats/internal/identity"
	"github.com/tomtom215/fizzstats/internal/journal"
	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/metrics"
	"github.com/tomtom215/fizzstats/internal/models"
	"github.com/tomtom215/fizzstats/internal/workerpool"
)

// DefaultTopN is the number of records in a statistics report.
const DefaultTopN = 10

// Store is the counting store the engine reads and writes.
type Store interface {
	buffer.BatchStore
	Get(ctx context.Context, identity string) (models.RequestRecord, bool, error)
	TopN(ctx context.Context, n int) ([]models.RequestRecord, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Config configures an Engine. Zero values take the documented defaults.
type Config struct {
	Limits          fizzbuzz.Limits
	TopN            int           // default 10
	HotCacheSize    int           // default TopN; negative disables the hot cache
	SnapshotTTL     time.Duration // zero refreshes on every statistics request
	BufferThreshold int           // default 100
	Workers         int           // default GOMAXPROCS
	Breaker         BreakerConfig

	// Journal, when set, keeps unflushed requests across restarts.
	Journal *journal.Journal

	// Clock drives snapshot expiry. Defaults to the real clock.
	Clock clockwork.Clock
}

// Source tells where a sequence answer came from.
type Source string

const (
	SourceHot      Source = "hot"
	SourceStore    Source = "store"
	SourceComputed Source = "computed"
)

// Result is the answer to a sequence request.
type Result struct {
	Sequence string
	Identity string
	Source   Source
}

// StatRecord is one line of the statistics report.
type StatRecord struct {
	Int1       string
	Int2       string
	Limit      string
	Str1       string
	Str2       string
	Sequence   string
	Occurrence int64
}

// Engine answers sequence requests and counts them.
type Engine struct {
	store    Store
	cfg      Config
	pool     *workerpool.Pool
	buf      *buffer.Buffer
	hot      *cache.HotCache
	snapshot *cache.Snapshot
	breaker  *gobreaker.CircuitBreaker[lookup]

	// resetMu orders Reset against snapshot refreshes so a refresh that
	// started before a reset cannot repopulate the hot cache with cleared data.
	resetMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// New builds an Engine over store. Requests left in the journal by a previous
// run are buffered again and counted on the next flush.
func New(ctx context.Context, store Store, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.HotCacheSize == 0 {
		cfg.HotCacheSize = cfg.TopN
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	bufCfg := buffer.Config{Threshold: cfg.BufferThreshold}
	if cfg.Journal != nil {
		bufCfg.Journal = cfg.Journal
	}
	buf, err := buffer.New(store, bufCfg)
	if err != nil {
		return nil, fmt.Errorf("create write buffer: %w", err)
	}

	e := &Engine{
		store:   store,
		cfg:     cfg,
		pool:    workerpool.New(cfg.Workers),
		buf:     buf,
		hot:     cache.NewHotCache(cfg.HotCacheSize),
		breaker: newStoreBreaker(cfg.Breaker),
		closed:  make(chan struct{}),
	}
	e.snapshot = cache.NewSnapshot(e.loadReport, cfg.SnapshotTTL,
		cache.WithClock(cfg.Clock),
		cache.WithRefreshHook(e.hot.Replace),
	)

	if cfg.Journal != nil {
		if err := e.replayJournal(ctx); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) replayJournal(ctx context.Context) error {
	pending, err := e.cfg.Journal.Pending(ctx)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	entries := make([]buffer.Entry, len(pending))
	for i, p := range pending {
		entries[i] = buffer.Entry{Request: p.Request, JournalID: p.ID}
	}
	if err := e.buf.Restore(entries); err != nil {
		return fmt.Errorf("restore journaled requests: %w", err)
	}
	logging.Info().Int("entries", len(entries)).Msg("Restored unflushed requests from journal")
	return nil
}

// Sequence validates raw, answers with its sequence and records the request.
// Validation failures are returned as *fizzbuzz.ValidationError.
func (e *Engine) Sequence(ctx context.Context, raw fizzbuzz.RawParams) (Result, error) {
	if e.isClosed() {
		return Result{}, ErrClosed
	}

	params, err := fizzbuzz.Validate(raw, e.cfg.Limits)
	if err != nil {
		var verr *fizzbuzz.ValidationError
		if errors.As(err, &verr) {
			metrics.SequenceValidationFailures.WithLabelValues(string(verr.Reason)).Inc()
		}
		return Result{}, err
	}

	id := identity.Canonicalize(params)
	res := Result{Identity: id}

	if seq, ok := e.hot.Lookup(id); ok {
		res.Sequence, res.Source = seq, SourceHot
	} else if rec, found, err := e.readStore(ctx, id); err != nil {
		return Result{}, err
	} else if found {
		res.Sequence, res.Source = rec.Sequence, SourceStore
	} else {
		seq, err := e.generate(ctx, params)
		if err != nil {
			return Result{}, err
		}
		res.Sequence, res.Source = seq, SourceComputed
	}

	if err := e.buf.Record(ctx, id, res.Sequence); err != nil {
		if errors.Is(err, buffer.ErrClosed) {
			return Result{}, ErrClosed
		}
		// The answer is still correct; only this request's count is lost.
		logging.Ctx(ctx).Error().Err(err).Str("identity", id).Msg("Failed to record request")
	}

	metrics.SequenceRequests.WithLabelValues(string(res.Source)).Inc()
	return res, nil
}

// readStore looks identity up through the breaker. Store failures are logged
// and reported as not found; only the caller's own context error is returned.
func (e *Engine) readStore(ctx context.Context, id string) (models.RequestRecord, bool, error) {
	res, err := e.breaker.Execute(func() (lookup, error) {
		return workerpool.Submit(ctx, e.pool, func() (lookup, error) {
			rec, found, err := e.store.Get(ctx, id)
			return lookup{record: rec, found: found}, err
		})
	})
	if err == nil {
		return res.record, res.found, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.RequestRecord{}, false, ctxErr
	}

	event := logging.Ctx(ctx).Warn().Err(err).Str("identity", id)
	if isBreakerRejection(err) {
		event.Msg("Store read skipped, circuit open; computing sequence")
	} else {
		event.Msg("Store read failed; computing sequence")
	}
	return models.RequestRecord{}, false, nil
}

func (e *Engine) generate(ctx context.Context, p fizzbuzz.Params) (string, error) {
	return workerpool.Submit(ctx, e.pool, func() (string, error) {
		start := time.Now()
		seq := fizzbuzz.Generate(p)
		metrics.SequenceGenerationDuration.Observe(time.Since(start).Seconds())
		return seq, nil
	})
}

// Stats returns the most requested parameter sets, most requested first.
// The report may be up to the snapshot lifetime old.
func (e *Engine) Stats(ctx context.Context) ([]StatRecord, error) {
	if e.isClosed() {
		return nil, ErrClosed
	}
	records, err := e.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}

	out := make([]StatRecord, 0, len(records))
	for _, r := range records {
		f, err := identity.Parse(r.Identity)
		if err != nil {
			logging.Warn().Err(err).Str("identity", r.Identity).Msg("Skipping malformed identity in statistics")
			continue
		}
		out = append(out, StatRecord{
			Int1:       f.Int1,
			Int2:       f.Int2,
			Limit:      f.Limit,
			Str1:       f.Str1,
			Str2:       f.Str2,
			Sequence:   r.Sequence,
			Occurrence: r.Occurrence,
		})
	}
	return out, nil
}

// loadReport is the snapshot loader: flush buffered counts, then read the top.
func (e *Engine) loadReport(ctx context.Context) ([]models.RequestRecord, error) {
	e.resetMu.Lock()
	defer e.resetMu.Unlock()

	// A report without the buffered counts would be cached for the whole TTL.
	if err := e.buf.Flush(ctx); err != nil {
		logging.Warn().Err(err).Msg("Flush before statistics failed, keeping previous report")
		return nil, fmt.Errorf("flush before statistics: %w", err)
	}
	return workerpool.Submit(ctx, e.pool, func() ([]models.RequestRecord, error) {
		return e.store.TopN(ctx, e.cfg.TopN)
	})
}

// Flush counts every buffered request in the store now.
func (e *Engine) Flush(ctx context.Context) error {
	return e.buf.Flush(ctx)
}

// Reset deletes every counted request. Buffered requests are flushed first
// so they are cleared too.
func (e *Engine) Reset(ctx context.Context) error {
	if e.isClosed() {
		return ErrClosed
	}
	e.resetMu.Lock()
	defer e.resetMu.Unlock()

	if err := e.buf.Flush(ctx); err != nil {
		return fmt.Errorf("flush before reset: %w", err)
	}
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	e.snapshot.Invalidate()
	e.hot.Clear()

	logging.Ctx(ctx).Info().Msg("Request statistics reset")
	return nil
}

// Health reports the state of the store and caches.
func (e *Engine) Health(ctx context.Context) models.HealthStatus {
	status := models.HealthStatus{
		Status:          "healthy",
		DatabaseOK:      true,
		BufferedEntries: e.buf.Len(),
		HotCacheEntries: e.hot.Len(),
	}
	if err := e.store.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.DatabaseOK = false
	}
	if e.isClosed() {
		status.Status = "closed"
	}
	return status
}

// BufferStats exposes write buffer statistics.
func (e *Engine) BufferStats() buffer.Stats {
	return e.buf.Stats()
}

// Close flushes buffered requests and waits for running tasks. The store and
// journal stay open; their owner closes them afterwards. Idempotent.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.closed)
		err = e.buf.Close()
		e.pool.Close()
	})
	return err
}

func (e *Engine) isClosed() bool {
	select {
	case <-e.closed:
		return true
	default:
		return false
	}
}

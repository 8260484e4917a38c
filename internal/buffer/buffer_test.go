// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package buffer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/fizzstats/internal/models"
)

// mockStore counts batches in memory.
type mockStore struct {
	mu      sync.Mutex
	counts  map[string]int64
	batches int
	fail    error
}

func newMockStore() *mockStore {
	return &mockStore{counts: make(map[string]int64)}
}

func (m *mockStore) UpsertIncrementBatch(_ context.Context, entries []models.BufferedRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, e := range entries {
		m.counts[e.Identity]++
	}
	m.batches++
	return nil
}

func (m *mockStore) setFail(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

func (m *mockStore) count(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[id]
}

func (m *mockStore) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// mockJournal records appends and removals.
type mockJournal struct {
	mu      sync.Mutex
	next    int
	pending map[string]models.BufferedRequest
	failAdd error
}

func newMockJournal() *mockJournal {
	return &mockJournal{pending: make(map[string]models.BufferedRequest)}
}

func (j *mockJournal) Append(_ context.Context, req models.BufferedRequest) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failAdd != nil {
		return "", j.failAdd
	}
	j.next++
	id := fmt.Sprintf("e%d", j.next)
	j.pending[id] = req
	return id, nil
}

func (j *mockJournal) Remove(_ context.Context, ids []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, id := range ids {
		delete(j.pending, id)
	}
	return nil
}

func (j *mockJournal) size() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

func TestNew(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		if _, err := New(nil, Config{}); !errors.Is(err, ErrNilStore) {
			t.Errorf("New(nil) error = %v, want ErrNilStore", err)
		}
	})

	t.Run("default threshold", func(t *testing.T) {
		b, err := New(newMockStore(), Config{})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if b.Threshold() != DefaultThreshold {
			t.Errorf("Threshold() = %d, want %d", b.Threshold(), DefaultThreshold)
		}
	})
}

func TestBuffer_FlushOnDemand(t *testing.T) {
	store := newMockStore()
	b, err := New(store, Config{Threshold: 1000})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := b.Record(ctx, "3_5_15_fizz_buzz", "seq"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if store.count("3_5_15_fizz_buzz") != 0 {
		t.Fatal("store written before flush")
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}

	if err := b.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.count("3_5_15_fizz_buzz"); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
	if b.Len() != 0 {
		t.Errorf("Len() after flush = %d, want 0", b.Len())
	}
	if store.batchCount() != 1 {
		t.Errorf("batches = %d, want 1", store.batchCount())
	}

	stats := b.Stats()
	if stats.Recorded != 5 || stats.Flushed != 5 || stats.FlushCount != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestBuffer_EmptyFlushIsNoop(t *testing.T) {
	store := newMockStore()
	b, _ := New(store, Config{})

	if err := b.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if store.batchCount() != 0 {
		t.Errorf("empty flush issued %d batches", store.batchCount())
	}
}

func TestBuffer_ThresholdTriggersFlush(t *testing.T) {
	store := newMockStore()
	b, _ := New(store, Config{Threshold: 10})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := b.Record(ctx, "id", "seq"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for store.count("id") != 10 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := store.count("id"); got != 10 {
		t.Errorf("count after threshold = %d, want 10", got)
	}
}

func TestBuffer_FailedFlushRetainsEntries(t *testing.T) {
	store := newMockStore()
	store.setFail(errors.New("database unavailable"))
	b, _ := New(store, Config{Threshold: 1000})
	ctx := context.Background()

	_ = b.Record(ctx, "a", "s1")
	_ = b.Record(ctx, "b", "s2")

	if err := b.Flush(ctx); err == nil {
		t.Fatal("Flush() error = nil, want store error")
	}
	if b.Len() != 2 {
		t.Fatalf("Len() after failed flush = %d, want 2", b.Len())
	}
	stats := b.Stats()
	if stats.ErrorCount != 1 || stats.LastError == "" {
		t.Errorf("Stats() after failure = %+v", stats)
	}

	// Entries recorded after the failure are flushed together with the retained ones.
	_ = b.Record(ctx, "a", "s1")
	store.setFail(nil)

	if err := b.Flush(ctx); err != nil {
		t.Fatalf("Flush() retry error = %v", err)
	}
	if got := store.count("a"); got != 2 {
		t.Errorf("count(a) = %d, want 2", got)
	}
	if got := store.count("b"); got != 1 {
		t.Errorf("count(b) = %d, want 1", got)
	}
	if b.Stats().LastError != "" {
		t.Error("LastError not cleared after success")
	}
}

func TestBuffer_Close(t *testing.T) {
	store := newMockStore()
	b, _ := New(store, Config{Threshold: 1000})
	ctx := context.Background()

	_ = b.Record(ctx, "id", "seq")
	_ = b.Record(ctx, "id", "seq")

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := store.count("id"); got != 2 {
		t.Errorf("count after Close = %d, want 2", got)
	}
	if err := b.Record(ctx, "id", "seq"); !errors.Is(err, ErrClosed) {
		t.Errorf("Record after Close error = %v, want ErrClosed", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBuffer_ConcurrentRecordExactTotal(t *testing.T) {
	store := newMockStore()
	b, _ := New(store, Config{Threshold: 7})
	ctx := context.Background()

	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Record(ctx, "3_5_100_fizz_buzz", "seq"); err != nil {
				t.Errorf("Record() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if err := b.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.count("3_5_100_fizz_buzz"); got != n {
		t.Errorf("count = %d, want %d", got, n)
	}
}

func TestBuffer_Journal(t *testing.T) {
	t.Run("removed after flush", func(t *testing.T) {
		store := newMockStore()
		j := newMockJournal()
		b, _ := New(store, Config{Threshold: 1000, Journal: j})
		ctx := context.Background()

		_ = b.Record(ctx, "a", "s")
		_ = b.Record(ctx, "b", "s")
		if j.size() != 2 {
			t.Fatalf("journal size = %d, want 2", j.size())
		}
		if err := b.Flush(ctx); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		if j.size() != 0 {
			t.Errorf("journal size after flush = %d, want 0", j.size())
		}
	})

	t.Run("kept after failed flush", func(t *testing.T) {
		store := newMockStore()
		store.setFail(errors.New("down"))
		j := newMockJournal()
		b, _ := New(store, Config{Threshold: 1000, Journal: j})
		ctx := context.Background()

		_ = b.Record(ctx, "a", "s")
		_ = b.Flush(ctx)
		if j.size() != 1 {
			t.Errorf("journal size = %d, want 1", j.size())
		}
	})

	t.Run("append failure rejects record", func(t *testing.T) {
		j := newMockJournal()
		j.failAdd = errors.New("disk full")
		b, _ := New(newMockStore(), Config{Journal: j})

		if err := b.Record(context.Background(), "a", "s"); err == nil {
			t.Error("Record() error = nil, want journal error")
		}
		if b.Len() != 0 {
			t.Errorf("Len() = %d, want 0", b.Len())
		}
	})
}

func TestBuffer_Restore(t *testing.T) {
	store := newMockStore()
	j := newMockJournal()
	b, _ := New(store, Config{Threshold: 1000, Journal: j})
	ctx := context.Background()

	id, _ := j.Append(ctx, models.BufferedRequest{Identity: "x", Sequence: "s"})
	if err := b.Restore([]Entry{{Request: models.BufferedRequest{Identity: "x", Sequence: "s"}, JournalID: id}}); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if err := b.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.count("x"); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if j.size() != 0 {
		t.Errorf("journal size = %d, want 0", j.size())
	}
}

func TestBuffer_FlushConcurrentWithThresholdFlushes(t *testing.T) {
	store := newMockStore()
	b, _ := New(store, Config{Threshold: 1})
	ctx := context.Background()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if err := b.Record(ctx, "id", "seq"); err != nil {
					t.Errorf("Record() error = %v", err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if err := b.Flush(ctx); err != nil {
					t.Errorf("Flush() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if err := b.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.count("id"); got != workers*perWorker {
		t.Errorf("count = %d, want %d", got, workers*perWorker)
	}
}

func TestBuffer_CloseConcurrentWithRecord(t *testing.T) {
	store := newMockStore()
	b, _ := New(store, Config{Threshold: 1})
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int64
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := b.Record(ctx, "id", "seq")
				if errors.Is(err, ErrClosed) {
					return
				}
				if err != nil {
					t.Errorf("Record() error = %v", err)
					return
				}
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	wg.Wait()

	batches := store.batchCount()
	if got := store.count("id"); got != accepted {
		t.Errorf("count after Close = %d, want %d accepted", got, accepted)
	}
	if b.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", b.Len())
	}
	time.Sleep(20 * time.Millisecond)
	if got := store.batchCount(); got != batches {
		t.Errorf("batches after Close = %d, want %d", got, batches)
	}
}

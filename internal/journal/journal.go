// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/models"
)

var (
	// ErrClosed is returned when the journal is used after Close.
	ErrClosed = errors.New("journal is closed")

	// ErrEmptyPath is returned by Open without a directory.
	ErrEmptyPath = errors.New("journal path is required")
)

const prefixPending = "pending:"

// Config configures the BadgerDB journal.
type Config struct {
	// Path is the BadgerDB directory.
	Path string

	// SyncWrites fsyncs every append. Without it a power loss can drop
	// the most recent appends even though the process acknowledged them.
	SyncWrites bool

	// CloseTimeout bounds Close. Default 30s.
	CloseTimeout time.Duration
}

// Entry is one journaled request.
type Entry struct {
	ID        string                 `json:"id"`
	Request   models.BufferedRequest `json:"request"`
	CreatedAt time.Time              `json:"created_at"`
}

// Stats reports journal activity since Open.
type Stats struct {
	Appends int64
	Removes int64
}

// Journal is a BadgerDB-backed store of not yet counted requests.
type Journal struct {
	db     *badger.DB
	cfg    Config
	mu     sync.RWMutex
	closed bool

	appends atomic.Int64
	removes atomic.Int64
}

// Open opens or creates the journal at cfg.Path.
func Open(cfg Config) (*Journal, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Compression = options.Snappy
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Journal opened")

	return &Journal{db: db, cfg: cfg}, nil
}

func (j *Journal) isClosed() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.closed
}

// Append persists one request and returns its entry ID.
func (j *Journal) Append(_ context.Context, req models.BufferedRequest) (string, error) {
	if j.isClosed() {
		return "", ErrClosed
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(&entry)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPending+entry.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("write to BadgerDB: %w", err)
	}

	j.appends.Add(1)
	return entry.ID, nil
}

// Remove deletes counted entries. Unknown IDs are ignored.
func (j *Journal) Remove(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if j.isClosed() {
		return ErrClosed
	}

	// WriteBatch splits large deletes across transactions.
	wb := j.db.NewWriteBatch()
	defer wb.Cancel()

	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := wb.Delete([]byte(prefixPending + id)); err != nil {
			return fmt.Errorf("delete entry %s: %w", id, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush deletes: %w", err)
	}

	j.removes.Add(int64(len(ids)))
	return nil
}

// Pending returns every entry not yet removed, from a consistent snapshot.
func (j *Journal) Pending(ctx context.Context) ([]Entry, error) {
	if j.isClosed() {
		return nil, ErrClosed
	}

	var entries []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			var entry Entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Journal skipped unreadable entry")
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	return entries, nil
}

// Stats returns journal counters.
func (j *Journal) Stats() Stats {
	return Stats{
		Appends: j.appends.Load(),
		Removes: j.removes.Load(),
	}
}

// RunGC reclaims value log space left by removed entries.
func (j *Journal) RunGC() error {
	if j.isClosed() {
		return ErrClosed
	}
	for {
		err := j.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("value log GC: %w", err)
		}
	}
}

// Close closes BadgerDB, giving up after CloseTimeout. Idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- j.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Journal closed")
		return nil
	case <-time.After(j.cfg.CloseTimeout):
		return fmt.Errorf("badgerdb close timeout after %v", j.cfg.CloseTimeout)
	}
}

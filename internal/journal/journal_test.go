// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/fizzstats/internal/models"
)

func openTestJournal(t *testing.T, path string) *Journal {
	t.Helper()
	j, err := Open(Config{Path: path, SyncWrites: false})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return j
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Config{}); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Open() error = %v, want ErrEmptyPath", err)
	}
}

func TestAppendRemovePending(t *testing.T) {
	j := openTestJournal(t, t.TempDir())
	defer j.Close()
	ctx := context.Background()

	var ids []string
	for _, id := range []string{"a", "b", "a"} {
		entryID, err := j.Append(ctx, models.BufferedRequest{Identity: id, Sequence: "seq-" + id})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		ids = append(ids, entryID)
	}

	pending, err := j.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("Pending() = %d entries, want 3", len(pending))
	}

	if err := j.Remove(ctx, ids[:2]); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	pending, err = j.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Fatalf("Pending() after Remove = %+v", pending)
	}
	if pending[0].Request.Identity != "a" || pending[0].Request.Sequence != "seq-a" {
		t.Errorf("request = %+v", pending[0].Request)
	}

	stats := j.Stats()
	if stats.Appends != 3 || stats.Removes != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestPending_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	j := openTestJournal(t, dir)
	if _, err := j.Append(ctx, models.BufferedRequest{Identity: "3_5_15_fizz_buzz", Sequence: "s"}); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := openTestJournal(t, dir)
	defer reopened.Close()

	pending, err := reopened.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Request.Identity != "3_5_15_fizz_buzz" {
		t.Errorf("Pending() after reopen = %+v", pending)
	}
}

func TestClosedJournal(t *testing.T) {
	j := openTestJournal(t, t.TempDir())
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}

	ctx := context.Background()
	if _, err := j.Append(ctx, models.BufferedRequest{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Append() = %v, want ErrClosed", err)
	}
	if err := j.Remove(ctx, []string{"x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Remove() = %v, want ErrClosed", err)
	}
	if _, err := j.Pending(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Pending() = %v, want ErrClosed", err)
	}
}

func TestRemove_Empty(t *testing.T) {
	j := openTestJournal(t, t.TempDir())
	defer j.Close()
	if err := j.Remove(context.Background(), nil); err != nil {
		t.Errorf("Remove(nil) = %v", err)
	}
}

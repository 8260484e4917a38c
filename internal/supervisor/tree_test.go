// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// testService counts starts and fails its first failCount runs.
type testService struct {
	name      string
	failCount int32
	starts    atomic.Int32
	started   chan struct{}
}

func newTestService(name string) *testService {
	return &testService{name: name, started: make(chan struct{}, 16)}
}

func (s *testService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	if n <= s.failCount {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *testService) String() string {
	return s.name
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitStarted(t *testing.T, s *testService) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s was not started", s.name)
	}
}

func TestNewSupervisorTree(t *testing.T) {
	tests := []struct {
		name   string
		config TreeConfig
		want   TreeConfig
	}{
		{
			name:   "zero config takes defaults",
			config: TreeConfig{},
			want:   DefaultTreeConfig(),
		},
		{
			name: "explicit values kept",
			config: TreeConfig{
				FailureThreshold: 3,
				FailureDecay:     10,
				FailureBackoff:   time.Second,
				ShutdownTimeout:  2 * time.Second,
			},
			want: TreeConfig{
				FailureThreshold: 3,
				FailureDecay:     10,
				FailureBackoff:   time.Second,
				ShutdownTimeout:  2 * time.Second,
			},
		},
		{
			name:   "partial config",
			config: TreeConfig{ShutdownTimeout: time.Second},
			want: TreeConfig{
				FailureThreshold: 5,
				FailureDecay:     30,
				FailureBackoff:   15 * time.Second,
				ShutdownTimeout:  time.Second,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewSupervisorTree(testLogger(), tt.config)
			if err != nil {
				t.Fatalf("NewSupervisorTree() error = %v", err)
			}
			if tree.Root() == nil {
				t.Fatal("Root() is nil")
			}
			if tree.config != tt.want {
				t.Errorf("config = %+v, want %+v", tree.config, tt.want)
			}
		})
	}
}

func TestNewSupervisorTree_NilLogger(t *testing.T) {
	tree, err := NewSupervisorTree(nil, TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree(nil) error = %v", err)
	}
	if tree.logger == nil {
		t.Error("nil logger should fall back to slog.Default()")
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})

	flush := newTestService("buffer-flush")
	api := newTestService("http-server")
	tree.AddDataService(flush)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitStarted(t, flush)
	waitStarted(t, api)

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down")
	}

	if report, _ := tree.UnstoppedServiceReport(); len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTree_RestartsFailingDataService(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newTestService("journal-gc")
	failing.failCount = 2
	stable := newTestService("http-server")
	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	for i := 0; i < 3; i++ {
		waitStarted(t, failing)
	}
	waitStarted(t, stable)

	if got := stable.starts.Load(); got != 1 {
		t.Errorf("api service starts = %d, want 1 (unaffected by data layer failures)", got)
	}

	cancel()
	<-errCh
}

func TestSupervisorTree_RemoveDataService(t *testing.T) {
	tree, _ := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svc := newTestService("buffer-flush")
	token := tree.AddDataService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)
	waitStarted(t, svc)

	if err := tree.RemoveDataService(token); err != nil {
		t.Errorf("RemoveDataService() error = %v", err)
	}

	cancel()
	<-errCh
}

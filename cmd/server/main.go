// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/fizzstats/internal/api"
	"github.com/tomtom215/fizzstats/internal/config"
	"github.com/tomtom215/fizzstats/internal/database"
	"github.com/tomtom215/fizzstats/internal/engine"
	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
	"github.com/tomtom215/fizzstats/internal/journal"
	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/supervisor"
	"github.com/tomtom215/fizzstats/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("FizzStats exited with error")
	}
}

func run() error {
	// Until Init the default JSON logger is in use.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Bool("journal", cfg.Journal.Enabled).
		Int("max_limit", cfg.Sequence.MaxLimit).
		Dur("stats_ttl", cfg.Stats.TTL).
		Msg("Starting FizzStats")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open counting store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	var jrnl *journal.Journal
	if cfg.Journal.Enabled {
		jrnl, err = journal.Open(journal.Config{
			Path:       cfg.Journal.Path,
			SyncWrites: cfg.Journal.SyncWrites,
		})
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := jrnl.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing journal")
			}
		}()
	}

	engCfg := engine.Config{
		Limits: fizzbuzz.Limits{
			MaxLimit:    cfg.Sequence.MaxLimit,
			MaxLabelLen: cfg.Sequence.MaxLabelLen,
		},
		TopN:            cfg.Stats.TopN,
		HotCacheSize:    cfg.Stats.HotCacheSize,
		SnapshotTTL:     cfg.Stats.TTL,
		BufferThreshold: cfg.Buffer.Threshold,
		Workers:         cfg.Workers.Size,
		Journal:         jrnl,
	}

	eng, err := engine.New(ctx, db, engCfg)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	// Deferred last so it runs first: buffered requests are counted while
	// the store and the journal are still open.
	defer func() {
		if err := eng.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing engine")
		}
	}()

	if !cfg.Security.ResetEnabled {
		logging.Info().Msg("Statistics reset endpoint disabled (ENABLE_STATS_RESET=false)")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(api.NewHandler(eng), &cfg.Security)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Bridges zerolog to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}

	if cfg.Buffer.FlushInterval > 0 {
		tree.AddDataService(services.NewFlushService(eng, cfg.Buffer.FlushInterval))
	}
	if jrnl != nil && cfg.Journal.GCInterval > 0 {
		tree.AddDataService(services.NewJournalGCService(jrnl, cfg.Journal.GCInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("FizzStats stopped")
	return nil
}

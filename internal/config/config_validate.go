// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateBuffer(); err != nil {
		return err
	}

	if err := c.validateStats(); err != nil {
		return err
	}

	if err := c.validateSequence(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("FIZZBUZZ_SERVER_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("FIZZBUZZ_SERVER_DB_NAME is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

// Buffer bounds
const (
	minBufferThreshold = 1
	maxBufferThreshold = 100000
)

func (c *Config) validateBuffer() error {
	if c.Buffer.Threshold < minBufferThreshold || c.Buffer.Threshold > maxBufferThreshold {
		return fmt.Errorf("FIZZBUZZ_QUEUE_MAX_SIZE must be between %d and %d", minBufferThreshold, maxBufferThreshold)
	}
	if c.Buffer.FlushInterval < 0 {
		return fmt.Errorf("BUFFER_FLUSH_INTERVAL must be >= 0")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("JOURNAL_PATH is required when JOURNAL_ENABLED=true")
	}
	if c.Journal.GCInterval < 0 {
		return fmt.Errorf("JOURNAL_GC_INTERVAL must be >= 0")
	}
	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.TTL < time.Second {
		return fmt.Errorf("FIZZBUZZ_STATS_CACHE_LIFE_TIME must be at least 1 second")
	}
	if c.Stats.TopN < 1 {
		return fmt.Errorf("STATS_TOP_N must be >= 1")
	}
	if c.Stats.HotCacheSize < 0 {
		return fmt.Errorf("STATS_HOT_CACHE_SIZE must be >= 0")
	}
	return nil
}

func (c *Config) validateSequence() error {
	if c.Sequence.MaxLimit < 2 {
		return fmt.Errorf("SEQUENCE_MAX_LIMIT must be >= 2")
	}
	if c.Sequence.MaxLabelLen < 1 {
		return fmt.Errorf("SEQUENCE_MAX_LABEL_LEN must be >= 1")
	}
	if c.Workers.Size < 0 {
		return fmt.Errorf("WORKER_POOL_SIZE must be >= 0")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates rate limiting bounds. Disabled limits are not checked.
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Buffer   BufferConfig   `koanf:"buffer"`
	Journal  JournalConfig  `koanf:"journal"`
	Stats    StatsConfig    `koanf:"stats"`
	Sequence SequenceConfig `koanf:"sequence"`
	Workers  WorkersConfig  `koanf:"workers"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings for the counting store
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
}

// BufferConfig controls batching of counter increments
type BufferConfig struct {
	// Threshold is the number of buffered requests that triggers a flush.
	Threshold int `koanf:"threshold"`

	// FlushInterval flushes the buffer periodically in addition to the
	// threshold. Zero disables the periodic flush.
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// JournalConfig controls the optional on-disk journal of buffered requests.
// With the journal enabled, requests recorded but not yet flushed survive a crash.
type JournalConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`

	// GCInterval is how often the value log is compacted. Zero disables it.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// StatsConfig controls the usage report and the hot result cache
type StatsConfig struct {
	// TTL is how long a usage report snapshot is served before refresh.
	TTL time.Duration `koanf:"ttl"`

	// TopN is the number of most requested parameter sets in the report.
	TopN int `koanf:"top_n"`

	// HotCacheSize bounds the identities held in the hot result cache.
	HotCacheSize int `koanf:"hot_cache_size"`
}

// SequenceConfig bounds the accepted sequence parameters
type SequenceConfig struct {
	MaxLimit    int `koanf:"max_limit"`
	MaxLabelLen int `koanf:"max_label_len"`
}

// WorkersConfig sizes the pool that runs generation and store I/O
type WorkersConfig struct {
	Size int `koanf:"size"` // 0 = use runtime.NumCPU()
}

// SecurityConfig holds request throttling and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// ResetEnabled exposes the statistics reset endpoint.
	ResetEnabled bool `koanf:"reset_enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from all sources:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

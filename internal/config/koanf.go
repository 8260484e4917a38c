// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fizzstats/config.yaml",
	"/etc/fizzstats/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8888,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "data/fizzstats.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Buffer: BufferConfig{
			Threshold:     100,
			FlushInterval: 0, // threshold and shutdown flushes only
		},
		Journal: JournalConfig{
			Enabled:    false,
			Path:       "data/journal",
			SyncWrites: true,
			GCInterval: 10 * time.Minute,
		},
		Stats: StatsConfig{
			TTL:          86400 * time.Second,
			TopN:         10,
			HotCacheSize: 10,
		},
		Sequence: SequenceConfig{
			MaxLimit:    fizzbuzz.DefaultMaxLimit,
			MaxLabelLen: fizzbuzz.DefaultMaxLabelLen,
		},
		Workers: WorkersConfig{
			Size: 0,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			ResetEnabled:      false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processDurationFields(k); err != nil {
		return nil, fmt.Errorf("failed to process duration fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// durationConfigPaths lists settings where a bare number means seconds.
var durationConfigPaths = []string{
	"server.timeout",
	"server.shutdown_timeout",
	"buffer.flush_interval",
	"journal.gc_interval",
	"stats.ttl",
	"security.rate_limit_window",
}

// processDurationFields rewrites bare second counts ("86400" or 86400 from YAML)
// as durations so they do not decode as nanoseconds.
func processDurationFields(k *koanf.Koanf) error {
	for _, path := range durationConfigPaths {
		var seconds float64
		switch v := k.Get(path).(type) {
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue // a regular duration string like "5m"
			}
			seconds = n
		case int:
			seconds = float64(v)
		case int64:
			seconds = float64(v)
		case float64:
			seconds = v
		default:
			continue
		}
		d := time.Duration(seconds * float64(time.Second))
		if err := k.Set(path, d.String()); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Legacy names from the first fizzbuzz server deployment
	"fizzbuzz_server_port":           "server.port",
	"fizzbuzz_server_db_name":        "database.path",
	"fizzbuzz_queue_max_size":        "buffer.threshold",
	"fizzbuzz_stats_cache_life_time": "stats.ttl",

	// Server mappings
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Buffer and journal mappings
	"buffer_threshold":      "buffer.threshold",
	"buffer_flush_interval": "buffer.flush_interval",
	"journal_enabled":       "journal.enabled",
	"journal_path":          "journal.path",
	"journal_sync_writes":   "journal.sync_writes",
	"journal_gc_interval":   "journal.gc_interval",

	// Statistics mappings
	"stats_ttl":            "stats.ttl",
	"stats_top_n":          "stats.top_n",
	"stats_hot_cache_size": "stats.hot_cache_size",

	// Sequence mappings
	"sequence_max_limit":     "sequence.max_limit",
	"sequence_max_label_len": "sequence.max_label_len",

	"worker_pool_size": "workers.size",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"enable_stats_reset":  "security.reset_enabled",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are ignored.
//
// Examples:
//   - FIZZBUZZ_SERVER_PORT -> server.port
//   - DUCKDB_MAX_MEMORY -> database.max_memory
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

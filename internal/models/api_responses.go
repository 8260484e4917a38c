// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// SequenceRequest is the body of POST /fizzbuzz/sequence.
//
// Fields are kept raw so numeric strings and JSON numbers are both accepted.
// The validate tags only enforce that each key is present; value rules
// belong to package fizzbuzz.
type SequenceRequest struct {
	Int1  json.RawMessage `json:"int1" validate:"required"`
	Int2  json.RawMessage `json:"int2" validate:"required"`
	Limit json.RawMessage `json:"limit" validate:"required"`
	Str1  json.RawMessage `json:"str1" validate:"required"`
	Str2  json.RawMessage `json:"str2" validate:"required"`
}

// SequenceResponse is the success body of POST /fizzbuzz/sequence.
type SequenceResponse struct {
	Sequence string `json:"sequence"`
}

// StatsEntry is one row of the usage report.
// nb_occurences keeps the field name existing clients read.
type StatsEntry struct {
	Int1        string `json:"int1"`
	Int2        string `json:"int2"`
	Limit       string `json:"limit"`
	Str1        string `json:"str1"`
	Str2        string `json:"str2"`
	Sequence    string `json:"sequence"`
	Occurrences int64  `json:"nb_occurences"`
}

// StatsResponse is the body of GET /fizzbuzz/statistics.
type StatsResponse struct {
	Stats []StatsEntry `json:"stats"`
}

// ErrorResponse is returned with every 4xx/5xx on the fizzbuzz routes.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// APIResponse is the envelope used by the operational endpoints.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError describes a failed operational request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the data of the readiness endpoint.
type HealthStatus struct {
	Status          string `json:"status"`
	DatabaseOK      bool   `json:"database_ok"`
	BufferedEntries int    `json:"buffered_entries"`
	HotCacheEntries int    `json:"hot_cache_entries"`
}

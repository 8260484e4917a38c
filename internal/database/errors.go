// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/fizzstats/internal/logging"
)

var (
	// ErrNilConnection is returned when the store is used after Close.
	ErrNilConnection = errors.New("database connection is nil")

	// ErrInvalidTopN is returned for a non-positive TopN size.
	ErrInvalidTopN = errors.New("top-n size must be positive")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // best-effort cleanup
	}
}

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package models

// RequestRecord is one row of the counting store.
// Occurrence grows by exactly one per recorded request; Sequence is written
// once when the row is created and never changed.
type RequestRecord struct {
	Identity   string `json:"identity"`
	Sequence   string `json:"sequence"`
	Occurrence int64  `json:"occurrence"`
}

// BufferedRequest is a served request waiting to be counted.
// Duplicates are expected; each one stands for one occurrence.
type BufferedRequest struct {
	Identity string `json:"identity"`
	Sequence string `json:"sequence"`
}

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

// Package validation checks the shape of decoded request bodies using
// go-playground/validator v10.
//
// It covers presence and structure only. Whether the values make a valid
// parameter set is decided by the fizzbuzz package, which owns the ordered
// reason codes.
//
// Field names in messages are the JSON keys, so a body without "str2" yields
// "str2 is missing in the request body".
package validation

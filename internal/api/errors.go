// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package api

import "errors"

var (
	// ErrMissingContentType is returned for a request without Content-Type.
	ErrMissingContentType = errors.New("invalid Content-Type")

	// ErrMalformedBody is returned when the body is not a JSON object.
	ErrMalformedBody = errors.New("request body must be a JSON object")
)

// Error codes of the fizzbuzz routes. Validation failures use the
// fizzbuzz reason codes instead.
const (
	ErrCodeUnsupportedContentType = "UNSUPPORTED_CONTENT_TYPE"
	ErrCodeMalformedBody          = "MALFORMED_BODY"
	ErrCodeBodyTooLarge           = "BODY_TOO_LARGE"
	ErrCodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError          = "INTERNAL_ERROR"
	ErrCodeTooManyRequests        = "TOO_MANY_REQUESTS"
	ErrCodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound               = "NOT_FOUND"
)

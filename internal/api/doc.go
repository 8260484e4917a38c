// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package api exposes the engine over HTTP using the chi router.

Routes:

	POST /fizzbuzz/sequence            sequence for five parameters
	GET  /fizzbuzz/statistics          most requested parameter sets (204 when none)
	POST /fizzbuzz/statistics/reset    clear all counts (only when enabled)
	GET  /health/live                  liveness probe
	GET  /health/ready                 readiness probe (503 when the store is down)
	GET  /metrics                      Prometheus exposition

The fizzbuzz routes answer errors as {"error": message, "code": code}. The
sequence route accepts application/json and application/x-json bodies (any
parameters after the media type are ignored). Every key is required; a JSON
null counts as missing.

Validation reason codes map to 400. An engine that is shutting down maps
to 503. Anything else maps to 500 with the detail kept in the logs.
*/
package api

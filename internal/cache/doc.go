// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package cache holds the two read-side caches of the statistics service.

HotCache maps the identities of the most requested parameter sets to their
sequences. It is rebuilt from every statistics snapshot and replaced as a
whole, so lookups never take a lock.

Snapshot keeps the last statistics result for a fixed lifetime. Concurrent
callers that find it expired share a single refresh. A failed refresh leaves
the previous result in place and returns the error.

Both caches take a clockwork.Clock so tests can move time forward without
sleeping.
*/
package cache

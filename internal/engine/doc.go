// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package engine is the request counting service behind the HTTP API.

One Engine is built at startup and owns every piece of mutable state: the
write buffer, the hot cache, the statistics snapshot and the worker pool.

Sequence requests:

 1. validate the raw parameters, then derive the identity from the result
 2. answer from the hot cache when the identity is there
 3. otherwise read the counting store through a circuit breaker
 4. otherwise render the sequence on the worker pool
 5. record the request in the write buffer

A store read that fails is logged and the sequence is computed instead, so a
broken store degrades counting but not serving.

Statistics requests return the snapshot while it is fresh. A refresh flushes
the write buffer, reads the top records and rebuilds the hot cache from them.
*/
package engine

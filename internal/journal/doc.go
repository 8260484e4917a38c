// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package journal persists buffered requests to BadgerDB until they are counted.

The write buffer keeps served requests in memory and counts them in batches.
Without a journal, a crash loses whatever was buffered. With the journal
enabled, each request is appended to BadgerDB before it enters the buffer and
removed once the batch containing it has been committed to the counting store.
On startup, Pending returns everything that was never removed and the buffer
is seeded with it.

Delivery is at-least-once: a crash between the store commit and Remove
replays that batch, so its requests are counted twice.

# Storage Layout

	pending:<uuid>  -> JSON {"id","request":{"identity","sequence"},"created_at"}

Keys sort by prefix only; replay order is not significant because counting
is commutative.
*/
package journal

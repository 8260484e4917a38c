// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package services adapts FizzStats components to suture.Service.

HTTPServerService turns the blocking ListenAndServe of *http.Server into a
context-aware Serve with graceful shutdown.

PeriodicService runs a task on a ticker. Two constructors cover the data
layer:

	services.NewFlushService(engine, interval)   // counts buffered requests
	services.NewJournalGCService(journal, interval) // compacts the value log

A failing task is logged and retried on the next tick instead of crashing
the service, since restarting would only run it again. The flush service
runs one final flush when it is stopped.
*/
package services

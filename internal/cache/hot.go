// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package cache

import (
	"sync/atomic"

	"github.com/tomtom215/fizzstats/internal/metrics"
	"github.com/tomtom215/fizzstats/internal/models"
)

// HotCache is a read-mostly identity to sequence map. Writers replace the
// whole map; readers see either the old or the new one.
type HotCache struct {
	capacity int
	entries  atomic.Pointer[map[string]string]
}

// NewHotCache creates an empty hot cache holding at most capacity entries.
// A capacity of zero disables it.
func NewHotCache(capacity int) *HotCache {
	if capacity < 0 {
		capacity = 0
	}
	h := &HotCache{capacity: capacity}
	empty := map[string]string{}
	h.entries.Store(&empty)
	return h
}

// Lookup returns the cached sequence for identity.
func (h *HotCache) Lookup(identity string) (string, bool) {
	seq, ok := (*h.entries.Load())[identity]
	if ok {
		metrics.HotCacheHits.Inc()
	} else {
		metrics.HotCacheMisses.Inc()
	}
	return seq, ok
}

// Replace swaps in the given records, most requested first. Records past
// the capacity are ignored.
func (h *HotCache) Replace(records []models.RequestRecord) {
	n := min(len(records), h.capacity)
	next := make(map[string]string, n)
	for _, r := range records[:n] {
		next[r.Identity] = r.Sequence
	}
	h.entries.Store(&next)
	metrics.HotCacheEntries.Set(float64(len(next)))
}

// Clear empties the cache.
func (h *HotCache) Clear() {
	h.Replace(nil)
}

// Len returns the number of cached entries.
func (h *HotCache) Len() int {
	return len(*h.entries.Load())
}

// Capacity returns the configured capacity.
func (h *HotCache) Capacity() int {
	return h.capacity
}

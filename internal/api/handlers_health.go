// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package api

import (
	"net/http"
	"time"
)

// HealthLive answers 200 while the process is up, whatever the store does.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondEnvelope(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 when the store responds, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.svc.Health(r.Context())
	code := http.StatusOK
	if !status.DatabaseOK || status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	respondEnvelope(w, code, status)
}

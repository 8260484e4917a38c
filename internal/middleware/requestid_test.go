// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/fizzstats/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{"generates when absent", "", false},
		{"preserves upstream id", "upstream-id-123", true},
		{"replaces oversized id", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID, corrID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = GetRequestID(r.Context())
				corrID = logging.CorrelationIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/fizzbuzz/statistics", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			respID := rec.Header().Get(RequestIDHeader)
			if respID != ctxID {
				t.Errorf("response id %q != context id %q", respID, ctxID)
			}
			if corrID == "" {
				t.Error("expected correlation id in context")
			}
			if tt.wantReused {
				if respID != tt.incoming {
					t.Errorf("id = %q, want %q", respID, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(respID); err != nil {
				t.Errorf("generated id %q is not a UUID: %v", respID, err)
			}
		})
	}
}

// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	body := strings.Repeat("1,2,fizz,4,buzz,", 200)

	tests := []struct {
		name           string
		acceptEncoding string
		status         int
		write          bool
		wantGzip       bool
	}{
		{"gzip accepted", "gzip, deflate", http.StatusOK, true, true},
		{"gzip not accepted", "", http.StatusOK, true, false},
		{"no content skipped", "gzip", http.StatusNoContent, false, false},
		{"error body compressed", "gzip", http.StatusBadRequest, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				if tt.write {
					_, _ = io.WriteString(w, body)
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/fizzbuzz/statistics", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			gotGzip := rec.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("gzip = %v, want %v", gotGzip, tt.wantGzip)
			}

			if !tt.write {
				if rec.Body.Len() != 0 {
					t.Errorf("body length = %d, want 0", rec.Body.Len())
				}
				return
			}

			var got []byte
			if gotGzip {
				zr, err := gzip.NewReader(rec.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader() error = %v", err)
				}
				got, err = io.ReadAll(zr)
				if err != nil {
					t.Fatalf("read gzip body: %v", err)
				}
			} else {
				got = rec.Body.Bytes()
			}
			if string(got) != body {
				t.Error("body mismatch after decompression")
			}
		})
	}
}

func TestCompression_ImplicitOK(t *testing.T) {
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "fizz")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Header().Get("Content-Encoding") != "gzip" {
		t.Errorf("got status %d encoding %q", rec.Code, rec.Header().Get("Content-Encoding"))
	}
}

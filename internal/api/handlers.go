// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package api

import (
	"context"
	"time"

	"github.com/tomtom215/fizzstats/internal/engine"
	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
	"github.com/tomtom215/fizzstats/internal/models"
)

// Service is the engine surface the handlers use.
type Service interface {
	Sequence(ctx context.Context, raw fizzbuzz.RawParams) (engine.Result, error)
	Stats(ctx context.Context) ([]engine.StatRecord, error)
	Reset(ctx context.Context) error
	Health(ctx context.Context) models.HealthStatus
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_fizzbuzz.go: sequence, statistics and reset
//   - handlers_health.go: liveness and readiness probes
//   - handlers_helpers.go: request decoding and response writing
type Handler struct {
	svc       Service
	startTime time.Time
}

// NewHandler creates a handler serving svc.
func NewHandler(svc Service) *Handler {
	return &Handler{
		svc:       svc,
		startTime: time.Now(),
	}
}

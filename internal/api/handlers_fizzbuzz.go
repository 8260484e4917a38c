// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/fizzstats/internal/engine"
	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/models"
)

// Sequence handles POST /fizzbuzz/sequence.
func (h *Handler) Sequence(w http.ResponseWriter, r *http.Request) {
	if rerr := checkContentType(r); rerr != nil {
		respondError(w, r, rerr.status, rerr.code, rerr.message)
		return
	}

	raw, rerr := decodeSequenceRequest(w, r)
	if rerr != nil {
		respondError(w, r, rerr.status, rerr.code, rerr.message)
		return
	}

	res, err := h.svc.Sequence(r.Context(), raw)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("identity", res.Identity).
		Str("source", string(res.Source)).
		Msg("Sequence served")
	respondJSON(w, http.StatusOK, &models.SequenceResponse{Sequence: res.Sequence})
}

// Statistics handles GET /fizzbuzz/statistics. An empty report is 204 with
// no body.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Stats(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	entries := make([]models.StatsEntry, len(records))
	for i, rec := range records {
		entries[i] = toStatsEntry(rec)
	}
	respondJSON(w, http.StatusOK, &models.StatsResponse{Stats: entries})
}

// ResetStatistics handles POST /fizzbuzz/statistics/reset.
func (h *Handler) ResetStatistics(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toStatsEntry(rec engine.StatRecord) models.StatsEntry {
	return models.StatsEntry{
		Int1:        rec.Int1,
		Int2:        rec.Int2,
		Limit:       rec.Limit,
		Str1:        rec.Str1,
		Str2:        rec.Str2,
		Sequence:    rec.Sequence,
		Occurrences: rec.Occurrence,
	}
}

// respondServiceError maps engine errors to responses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *fizzbuzz.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, r, http.StatusBadRequest, string(verr.Reason), verr.Message)
	case errors.Is(err, engine.ErrClosed):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "service is shutting down")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled by client")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

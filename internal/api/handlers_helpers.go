// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
	"github.com/tomtom215/fizzstats/internal/logging"
	"github.com/tomtom215/fizzstats/internal/models"
	"github.com/tomtom215/fizzstats/internal/validation"
)

// replyContentType is set on every JSON response.
const replyContentType = "application/json; charset=UTF-8"

// maxBodyBytes bounds sequence request bodies.
const maxBodyBytes = 1 << 20

// acceptedContentTypes are the media types the sequence route decodes.
var acceptedContentTypes = []string{"application/json", "application/x-json"}

// requestError is a client error ready to be written.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string {
	return e.message
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", replyContentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the flat {"error", "code"} body of the fizzbuzz routes.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	logging.Ctx(r.Context()).Info().
		Int("status", status).
		Str("code", code).
		Str("error", sanitizeLogValue(message)).
		Msg("Request rejected")
	respondJSON(w, status, &models.ErrorResponse{Error: message, Code: code})
}

// respondEnvelope writes the status/data/metadata envelope of the
// operational routes.
func respondEnvelope(w http.ResponseWriter, status int, data interface{}) {
	state := "success"
	if status >= http.StatusBadRequest {
		state = "error"
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   state,
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// checkContentType accepts application/json and application/x-json,
// ignoring leading spaces and media type parameters.
func checkContentType(r *http.Request) *requestError {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return &requestError{
			status:  http.StatusBadRequest,
			code:    ErrCodeUnsupportedContentType,
			message: ErrMissingContentType.Error(),
		}
	}

	contentType = strings.TrimLeft(contentType, " \t")
	for _, accepted := range acceptedContentTypes {
		if strings.HasPrefix(contentType, accepted) {
			return nil
		}
	}
	return &requestError{
		status:  http.StatusBadRequest,
		code:    ErrCodeUnsupportedContentType,
		message: fmt.Sprintf("accepted content types are: %v, got %s", acceptedContentTypes, contentType),
	}
}

// decodeSequenceRequest reads the five parameters from the body. Presence is
// checked here; value rules are left to the engine.
func decodeSequenceRequest(w http.ResponseWriter, r *http.Request) (fizzbuzz.RawParams, *requestError) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fizzbuzz.RawParams{}, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				code:    ErrCodeBodyTooLarge,
				message: fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes),
			}
		}
		return fizzbuzz.RawParams{}, &requestError{
			status:  http.StatusBadRequest,
			code:    ErrCodeMalformedBody,
			message: "failed to read request body",
		}
	}

	var req models.SequenceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fizzbuzz.RawParams{}, &requestError{
			status:  http.StatusBadRequest,
			code:    ErrCodeMalformedBody,
			message: ErrMalformedBody.Error(),
		}
	}

	nullAsMissing(&req.Int1, &req.Int2, &req.Limit, &req.Str1, &req.Str2)
	if verr := validation.ValidateStruct(&req); verr != nil {
		return fizzbuzz.RawParams{}, &requestError{
			status:  http.StatusBadRequest,
			code:    verr.Code(),
			message: verr.Error(),
		}
	}

	return fizzbuzz.RawParams{
		Int1:  rawValue(req.Int1),
		Int2:  rawValue(req.Int2),
		Limit: rawValue(req.Limit),
		Str1:  rawValue(req.Str1),
		Str2:  rawValue(req.Str2),
	}, nil
}

var jsonNull = []byte("null")

func nullAsMissing(fields ...*json.RawMessage) {
	for _, f := range fields {
		if bytes.Equal(bytes.TrimSpace(*f), jsonNull) {
			*f = nil
		}
	}
}

// rawValue decodes one JSON value. Numbers become int64 when integral and
// in range, float64 otherwise, so the validator sees the numeric value
// rather than its spelling.
func rawValue(msg json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

// sanitizeLogValue strips control characters from client-supplied text
// before it reaches the logs.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

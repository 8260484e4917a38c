// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package fizzbuzz

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func valid() RawParams {
	return RawParams{Int1: 3, Int2: 5, Limit: 20, Str1: "fizz", Str2: "buzz"}
}

func TestValidate_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RawParams)
		reason Reason
	}{
		{"non integer int1", func(r *RawParams) { r.Int1 = "three" }, ReasonNonInteger},
		{"float limit", func(r *RawParams) { r.Limit = 20.5 }, ReasonNonInteger},
		{"decimal json number", func(r *RawParams) { r.Limit = json.Number("20.0") }, ReasonNonInteger},
		{"nil int2", func(r *RawParams) { r.Int2 = nil }, ReasonNonInteger},
		{"bool limit", func(r *RawParams) { r.Limit = true }, ReasonNonInteger},
		{"zero int1", func(r *RawParams) { r.Int1 = 0 }, ReasonZeroDivisor},
		{"zero int2 as string", func(r *RawParams) { r.Int2 = "0" }, ReasonZeroDivisor},
		{"limit one", func(r *RawParams) { r.Limit = 1 }, ReasonLimitTooSmall},
		{"negative limit", func(r *RawParams) { r.Limit = -4 }, ReasonLimitTooSmall},
		{"limit above max", func(r *RawParams) { r.Limit = DefaultMaxLimit + 1 }, ReasonLimitTooLarge},
		{"limit overflows int", func(r *RawParams) { r.Limit = "99999999999999999999999" }, ReasonLimitTooLarge},
		{"int1 above limit", func(r *RawParams) { r.Int1 = 21 }, ReasonDivisorExceedLimit},
		{"int2 above limit", func(r *RawParams) { r.Int2 = 100 }, ReasonDivisorExceedLimit},
		{"label not string", func(r *RawParams) { r.Str1 = 12 }, ReasonLabelNotString},
		{"nil label", func(r *RawParams) { r.Str2 = nil }, ReasonLabelNotString},
		{"label too long", func(r *RawParams) { r.Str2 = strings.Repeat("z", DefaultMaxLabelLen+1) }, ReasonLabelTooLong},
		{"underscore", func(r *RawParams) { r.Str1 = "fi_zz" }, ReasonLabelForbiddenChar},
		{"comma", func(r *RawParams) { r.Str2 = "bu,zz" }, ReasonLabelForbiddenChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := valid()
			tt.mutate(&raw)

			_, err := Validate(raw, DefaultLimits())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Reason != tt.reason {
				t.Errorf("Reason = %s, want %s (message %q)", verr.Reason, tt.reason, verr.Message)
			}
			if verr.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestValidate_Order(t *testing.T) {
	// Zero divisor and too-small limit together: the divisor rule comes first.
	_, err := Validate(RawParams{Int1: 0, Int2: 5, Limit: 1, Str1: "a", Str2: "b"}, DefaultLimits())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonZeroDivisor {
		t.Fatalf("got %v, want ZERO_DIVISOR", err)
	}

	// Divisor over limit and forbidden label: numeric rules come first.
	_, err = Validate(RawParams{Int1: 50, Int2: 5, Limit: 20, Str1: "a_b", Str2: "b"}, DefaultLimits())
	if !errors.As(err, &verr) || verr.Reason != ReasonDivisorExceedLimit {
		t.Fatalf("got %v, want DIVISOR_EXCEEDS_LIMIT", err)
	}
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		raw  RawParams
		want string
	}{
		{RawParams{Int1: 3, Int2: 5, Limit: 1, Str1: "a", Str2: "b"}, "the provided limit (1) cannot be lower or equal to 1"},
		{RawParams{Int1: 3, Int2: 5, Limit: 2000000, Str1: "a", Str2: "b"}, "limit 2000000 cannot be bigger than 1000000"},
		{RawParams{Int1: 30, Int2: 5, Limit: 20, Str1: "a", Str2: "b"}, "int1 (30) and int2 (5) cannot be bigger than the limit (20)"},
		{RawParams{Int1: 3, Int2: 5, Limit: 20, Str1: "a,", Str2: "b"}, `characters ["_" ","] are forbidden`},
	}
	for _, tt := range tests {
		_, err := Validate(tt.raw, DefaultLimits())
		if err == nil || err.Error() != tt.want {
			t.Errorf("Validate() error = %v, want %q", err, tt.want)
		}
	}
}

func TestValidate_Normalizes(t *testing.T) {
	p, err := Validate(RawParams{
		Int1:  "03",
		Int2:  json.Number("5"),
		Limit: 15.0,
		Str1:  "  fizz ",
		Str2:  "\tbuzz",
	}, DefaultLimits())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := Params{Int1: 3, Int2: 5, Limit: 15, Str1: "fizz", Str2: "buzz"}
	if p != want {
		t.Errorf("Validate() = %+v, want %+v", p, want)
	}
}

func TestValidate_CustomLimits(t *testing.T) {
	limits := Limits{MaxLimit: 50, MaxLabelLen: 3}

	if _, err := Validate(RawParams{Int1: 3, Int2: 5, Limit: 51, Str1: "a", Str2: "b"}, limits); err == nil {
		t.Error("expected LIMIT_TOO_LARGE with MaxLimit 50")
	}
	if _, err := Validate(RawParams{Int1: 3, Int2: 5, Limit: 50, Str1: "abcd", Str2: "b"}, limits); err == nil {
		t.Error("expected LABEL_TOO_LONG with MaxLabelLen 3")
	}
	if _, err := Validate(RawParams{Int1: 3, Int2: 5, Limit: 50, Str1: "été", Str2: "b"}, limits); err != nil {
		t.Errorf("multi-byte label within rune budget rejected: %v", err)
	}
}

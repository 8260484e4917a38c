// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package fizzbuzz

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "classic 3 5 20",
			params: Params{Int1: 3, Int2: 5, Limit: 20, Str1: "fizz", Str2: "buzz"},
			want:   "1,2,fizz,4,buzz,fizz,7,8,fizz,buzz,11,fizz,13,14,fizzbuzz,16,17,fizz,19,buzz",
		},
		{
			name:   "same divisor concatenates labels",
			params: Params{Int1: 2, Int2: 2, Limit: 4, Str1: "a", Str2: "b"},
			want:   "1,ab,3,ab",
		},
		{
			name:   "divisor one replaces every position",
			params: Params{Int1: 1, Int2: 3, Limit: 3, Str1: "x", Str2: "y"},
			want:   "x,x,xy",
		},
		{
			name:   "negative divisor",
			params: Params{Int1: -2, Int2: 7, Limit: 4, Str1: "neg", Str2: "seven"},
			want:   "1,neg,3,neg",
		},
		{
			name:   "empty labels",
			params: Params{Int1: 2, Int2: 3, Limit: 6, Str1: "", Str2: ""},
			want:   "1,,,,5,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.params)
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerate_TokenCount(t *testing.T) {
	for _, limit := range []int{2, 15, 100, 9999} {
		p := Params{Int1: 3, Int2: 5, Limit: limit, Str1: "fizz", Str2: "buzz"}
		tokens := strings.Split(Generate(p), TokenSeparator)
		if len(tokens) != limit {
			t.Errorf("limit %d: got %d tokens", limit, len(tokens))
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := Params{Int1: 4, Int2: 6, Limit: 500, Str1: "foo", Str2: "bar"}
	first := Generate(p)
	for i := 0; i < 10; i++ {
		if got := Generate(p); got != first {
			t.Fatalf("run %d produced a different sequence", i)
		}
	}
}

func TestSequence(t *testing.T) {
	got, err := Sequence(RawParams{Int1: "3", Int2: 5, Limit: " 5 ", Str1: " fizz", Str2: "buzz "}, DefaultLimits())
	if err != nil {
		t.Fatalf("Sequence() error = %v", err)
	}
	if got != "1,2,fizz,4,buzz" {
		t.Errorf("Sequence() = %q", got)
	}

	if _, err := Sequence(RawParams{Int1: 0, Int2: 5, Limit: 5, Str1: "a", Str2: "b"}, DefaultLimits()); err == nil {
		t.Error("expected validation error for zero divisor")
	}
}

func BenchmarkGenerate_Max(b *testing.B) {
	p := Params{Int1: 3, Int2: 5, Limit: DefaultMaxLimit, Str1: "fizz", Str2: "buzz"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Generate(p)
	}
}

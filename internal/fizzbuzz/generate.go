// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package fizzbuzz

import (
	"strconv"
	"strings"
)

// Generate renders the sequence for validated parameters.
// The result always holds exactly p.Limit comma-separated tokens.
func Generate(p Params) string {
	if p.Limit < 1 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(estimateSize(p))

	both := p.Str1 + p.Str2
	var num [20]byte
	for pos := 1; pos <= p.Limit; pos++ {
		if pos > 1 {
			sb.WriteString(TokenSeparator)
		}
		div1 := pos%p.Int1 == 0
		div2 := pos%p.Int2 == 0
		switch {
		case div1 && div2:
			sb.WriteString(both)
		case div1:
			sb.WriteString(p.Str1)
		case div2:
			sb.WriteString(p.Str2)
		default:
			sb.Write(strconv.AppendInt(num[:0], int64(pos), 10))
		}
	}
	return sb.String()
}

// Sequence validates raw parameters and renders the sequence in one call.
func Sequence(raw RawParams, limits Limits) (string, error) {
	p, err := Validate(raw, limits)
	if err != nil {
		return "", err
	}
	return Generate(p), nil
}

// estimateSize sizes the builder for an all-numeric sequence; label tokens
// grow it further when they are longer than the numbers they replace.
func estimateSize(p Params) int {
	return p.Limit * (len(strconv.Itoa(p.Limit)) + 1)
}

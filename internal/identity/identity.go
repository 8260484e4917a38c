// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

// Package identity builds the canonical key under which a parameter set is counted.
//
// An identity joins the five canonical fields of a validated parameter set with
// "_": int1_int2_limit_str1_str2. Integers are rendered in base 10 without leading
// zeros and labels are already trimmed, so "03" and "3" share one identity. Labels
// may not contain "_", which keeps Parse an exact inverse of Canonicalize.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/fizzstats/internal/fizzbuzz"
)

// FieldCount is the number of fields in an identity.
const FieldCount = 5

// ErrMalformed is returned when an identity does not split into five fields.
var ErrMalformed = errors.New("malformed request identity")

// Fields is a parsed identity. Values keep their canonical textual form.
type Fields struct {
	Int1  string
	Int2  string
	Limit string
	Str1  string
	Str2  string
}

// Canonicalize returns the identity of validated parameters.
func Canonicalize(p fizzbuzz.Params) string {
	return strings.Join([]string{
		strconv.Itoa(p.Int1),
		strconv.Itoa(p.Int2),
		strconv.Itoa(p.Limit),
		p.Str1,
		p.Str2,
	}, fizzbuzz.IdentityDelimiter)
}

// Parse splits an identity back into its fields.
func Parse(id string) (Fields, error) {
	parts := strings.Split(id, fizzbuzz.IdentityDelimiter)
	if len(parts) != FieldCount {
		return Fields{}, fmt.Errorf("%w: %q has %d fields", ErrMalformed, id, len(parts))
	}
	return Fields{
		Int1:  parts[0],
		Int2:  parts[1],
		Limit: parts[2],
		Str1:  parts[3],
		Str2:  parts[4],
	}, nil
}

// Params converts parsed fields back to a parameter set.
func (f Fields) Params() (fizzbuzz.Params, error) {
	var p fizzbuzz.Params
	var err error
	if p.Int1, err = strconv.Atoi(f.Int1); err != nil {
		return fizzbuzz.Params{}, fmt.Errorf("%w: int1: %v", ErrMalformed, err)
	}
	if p.Int2, err = strconv.Atoi(f.Int2); err != nil {
		return fizzbuzz.Params{}, fmt.Errorf("%w: int2: %v", ErrMalformed, err)
	}
	if p.Limit, err = strconv.Atoi(f.Limit); err != nil {
		return fizzbuzz.Params{}, fmt.Errorf("%w: limit: %v", ErrMalformed, err)
	}
	p.Str1 = f.Str1
	p.Str2 = f.Str2
	return p, nil
}

// String joins the fields back into an identity.
func (f Fields) String() string {
	return strings.Join([]string{f.Int1, f.Int2, f.Limit, f.Str1, f.Str2}, fizzbuzz.IdentityDelimiter)
}

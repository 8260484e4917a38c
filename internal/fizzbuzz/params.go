// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package fizzbuzz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxLimit is the largest accepted limit.
	DefaultMaxLimit = 1_000_000

	// DefaultMaxLabelLen is the longest accepted label, in characters.
	DefaultMaxLabelLen = 100

	// IdentityDelimiter joins the fields of a request identity and so may not
	// appear inside a label.
	IdentityDelimiter = "_"

	// TokenSeparator joins the tokens of a generated sequence.
	TokenSeparator = ","
)

// ForbiddenLabelChars lists the characters rejected inside labels.
var ForbiddenLabelChars = []string{IdentityDelimiter, TokenSeparator}

// Limits bounds the accepted parameter space.
type Limits struct {
	MaxLimit    int
	MaxLabelLen int
}

// DefaultLimits returns the production bounds.
func DefaultLimits() Limits {
	return Limits{MaxLimit: DefaultMaxLimit, MaxLabelLen: DefaultMaxLabelLen}
}

func (l Limits) withDefaults() Limits {
	if l.MaxLimit <= 0 {
		l.MaxLimit = DefaultMaxLimit
	}
	if l.MaxLabelLen <= 0 {
		l.MaxLabelLen = DefaultMaxLabelLen
	}
	return l
}

// RawParams holds unvalidated request fields exactly as decoded.
type RawParams struct {
	Int1  any
	Int2  any
	Limit any
	Str1  any
	Str2  any
}

// Params is a validated parameter set. Values are immutable once returned by Validate.
type Params struct {
	Int1  int
	Int2  int
	Limit int
	Str1  string
	Str2  string
}

// Validate checks raw parameters in order and returns the first failure.
func Validate(raw RawParams, limits Limits) (Params, error) {
	limits = limits.withDefaults()

	int1, ok1 := parseInt(raw.Int1)
	int2, ok2 := parseInt(raw.Int2)
	limit, ok3 := parseInt(raw.Limit)
	if !ok1 || !ok2 || !ok3 {
		return Params{}, newValidationError(ReasonNonInteger, "int1, int2 and limit must be integers")
	}

	if int1 == 0 || int2 == 0 {
		return Params{}, newValidationError(ReasonZeroDivisor, "int1 and int2 cannot be null")
	}

	if limit <= 1 {
		return Params{}, newValidationError(ReasonLimitTooSmall,
			fmt.Sprintf("the provided limit (%d) cannot be lower or equal to 1", limit))
	}

	if limit > limits.MaxLimit {
		return Params{}, newValidationError(ReasonLimitTooLarge,
			fmt.Sprintf("limit %d cannot be bigger than %d", limit, limits.MaxLimit))
	}

	if int1 > limit || int2 > limit {
		return Params{}, newValidationError(ReasonDivisorExceedLimit,
			fmt.Sprintf("int1 (%d) and int2 (%d) cannot be bigger than the limit (%d)", int1, int2, limit))
	}

	str1, ok1 := raw.Str1.(string)
	str2, ok2 := raw.Str2.(string)
	if !ok1 || !ok2 {
		return Params{}, newValidationError(ReasonLabelNotString, "str1 and str2 must be of type string")
	}
	str1 = strings.TrimSpace(str1)
	str2 = strings.TrimSpace(str2)

	if utf8.RuneCountInString(str1) > limits.MaxLabelLen || utf8.RuneCountInString(str2) > limits.MaxLabelLen {
		return Params{}, newValidationError(ReasonLabelTooLong,
			fmt.Sprintf("max len of str1 and str2 is %d", limits.MaxLabelLen))
	}

	for _, c := range ForbiddenLabelChars {
		if strings.Contains(str1, c) || strings.Contains(str2, c) {
			return Params{}, newValidationError(ReasonLabelForbiddenChar,
				fmt.Sprintf("characters %q are forbidden", ForbiddenLabelChars))
		}
	}

	return Params{Int1: int1, Int2: int2, Limit: limit, Str1: str1, Str2: str2}, nil
}

// parseInt accepts Go integers, integral floats, decimal strings and values
// with a decimal String form such as json.Number. Out of range decimals
// saturate so range checks report them instead of a type error.
func parseInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		if x > math.MaxInt || x < math.MinInt {
			return 0, false
		}
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, false
		}
		if x >= math.MaxInt {
			return math.MaxInt, true
		}
		if x <= math.MinInt {
			return math.MinInt, true
		}
		return int(x), true
	case string:
		return parseDecimal(x)
	case fmt.Stringer:
		return parseDecimal(x.String())
	default:
		return 0, false
	}
}

func parseDecimal(s string) (int, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return int(n), true
}

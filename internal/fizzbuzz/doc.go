// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

/*
Package fizzbuzz validates sequence parameters and renders FizzBuzz-style sequences.

A sequence is defined by two divisors (int1, int2), an upper bound (limit) and two
labels (str1, str2). For every position from 1 to limit the generator emits str1 when
the position is divisible by int1, str1+str2 when divisible by both, str2 when divisible
by int2 only, and the decimal position otherwise. Tokens are joined with a comma.

# Validation

Raw parameters arrive untyped (decoded JSON values or form strings). Validate checks
them in a fixed order and reports the first failure as a *ValidationError carrying a
stable Reason code:

	NON_INTEGER_INPUT       int1, int2 or limit is not an integer
	ZERO_DIVISOR            int1 or int2 is zero
	LIMIT_TOO_SMALL         limit <= 1
	LIMIT_TOO_LARGE         limit > Limits.MaxLimit
	DIVISOR_EXCEEDS_LIMIT   int1 or int2 > limit
	LABEL_NOT_STRING        str1 or str2 is not a string
	LABEL_TOO_LONG          label longer than Limits.MaxLabelLen
	LABEL_FORBIDDEN_CHAR    label contains "_" or ","

Integers may be given as JSON numbers or as decimal strings ("03" is 3). Labels are
trimmed of surrounding whitespace before any check.

# Usage

	p, err := fizzbuzz.Validate(raw, fizzbuzz.DefaultLimits())
	if err != nil {
	    var verr *fizzbuzz.ValidationError
	    if errors.As(err, &verr) {
	        // verr.Reason, verr.Message
	    }
	    return err
	}
	seq := fizzbuzz.Generate(p)

Generation is pure and allocation-light: the output is built in a single pre-grown
strings.Builder.
*/
package fizzbuzz

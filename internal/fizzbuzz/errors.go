// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package fizzbuzz

// Reason identifies which validation rule rejected a parameter set.
type Reason string

const (
	ReasonNonInteger         Reason = "NON_INTEGER_INPUT"
	ReasonZeroDivisor        Reason = "ZERO_DIVISOR"
	ReasonLimitTooSmall      Reason = "LIMIT_TOO_SMALL"
	ReasonLimitTooLarge      Reason = "LIMIT_TOO_LARGE"
	ReasonDivisorExceedLimit Reason = "DIVISOR_EXCEEDS_LIMIT"
	ReasonLabelNotString     Reason = "LABEL_NOT_STRING"
	ReasonLabelTooLong       Reason = "LABEL_TOO_LONG"
	ReasonLabelForbiddenChar Reason = "LABEL_FORBIDDEN_CHAR"
)

// ValidationError is returned by Validate for rejected input.
// Validation errors are caller mistakes and must never be retried.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(reason Reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

package amortize

import (
	"errors"
	"fmt"
)

// Code is a machine-readable engine failure code.
type Code string

const (
	CodeInvalidTerms          Code = "INVALID_TERMS"
	CodeEventDateNotFound     Code = "EVENT_DATE_NOT_FOUND"
	CodeNegativeRemainingTerm Code = "NEGATIVE_REMAINING_TERM"
	CodeBalanceUnderflow      Code = "BALANCE_UNDERFLOW"
	CodeEventOutOfOrder       Code = "EVENT_OUT_OF_ORDER"
	CodeInvalidEvent          Code = "INVALID_EVENT"
)

// Error is a typed engine failure. Callers match on the code with errors.Is
// against the Err* sentinels, or read it with CodeOf.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrInvalidTerms          = &Error{Code: CodeInvalidTerms, Message: "invalid loan terms"}
	ErrEventDateNotFound     = &Error{Code: CodeEventDateNotFound, Message: "event date is not a payment date"}
	ErrNegativeRemainingTerm = &Error{Code: CodeNegativeRemainingTerm, Message: "no remaining term at event date"}
	ErrBalanceUnderflow      = &Error{Code: CodeBalanceUnderflow, Message: "principal paid exceeds start balance"}
	ErrEventOutOfOrder       = &Error{Code: CodeEventOutOfOrder, Message: "event precedes the terms in force"}
	ErrInvalidEvent          = &Error{Code: CodeInvalidEvent, Message: "invalid event"}
)

func newError(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// CodeOf returns the engine code carried by err, or "" when err is not an engine error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

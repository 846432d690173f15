package models

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure the pipeline can surface.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInputError"
	KindNotFound            Kind = "NotFoundError"
	KindNoStationsAvailable Kind = "NoStationsAvailableError"
	KindUpstreamUnavailable Kind = "UpstreamUnavailableError"
	KindStaleData           Kind = "StaleDataError"
	KindMalformedData       Kind = "MalformedDataError"
	KindValidation          Kind = "ValidationError"
	KindPersistence         Kind = "PersistenceError"
)

// Retryable reports whether the caller may rerun the same input later.
func (k Kind) Retryable() bool {
	switch k {
	case KindUpstreamUnavailable, KindStaleData, KindPersistence:
		return true
	default:
		return false
	}
}

// Sentinels for errors.Is. A sentinel matches any *Error of the same kind.
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrNoStationsAvailable = &Error{Kind: KindNoStationsAvailable}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
	ErrStaleData           = &Error{Kind: KindStaleData}
	ErrMalformedData       = &Error{Kind: KindMalformedData}
	ErrValidation          = &Error{Kind: KindValidation}
	ErrPersistence         = &Error{Kind: KindPersistence}
)

// Error is a classified pipeline failure. Field and Value are set when the
// failure is about a specific observation field.
type Error struct {
	Kind  Kind
	Field string
	Value any
	Msg   string
	Err   error
}

func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NewFieldError(kind Kind, field string, value any, msg string) *Error {
	return &Error{Kind: kind, Field: field, Value: value, Msg: msg}
}

// Message renders the error without the kind prefix.
func (e *Error) Message() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		if e.Value != nil {
			fmt.Fprintf(&b, "=%v", e.Value)
		}
		if e.Msg != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Error() string {
	msg := e.Message()
	if msg == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

// KindOf extracts the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

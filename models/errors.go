package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a lookup failed
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindNetwork            ErrorKind = "network"
	KindDataUnavailable    ErrorKind = "data_unavailable"
	KindInvalidCoordinates ErrorKind = "invalid_coordinates"
	KindInvalidTemperature ErrorKind = "invalid_temperature"
)

// Sentinels for errors.Is; a *LookupError matches the sentinel of its kind.
var (
	ErrValidation         = &LookupError{Kind: KindValidation}
	ErrNotFound           = &LookupError{Kind: KindNotFound}
	ErrNetwork            = &LookupError{Kind: KindNetwork}
	ErrDataUnavailable    = &LookupError{Kind: KindDataUnavailable}
	ErrInvalidCoordinates = &LookupError{Kind: KindInvalidCoordinates}
	ErrInvalidTemperature = &LookupError{Kind: KindInvalidTemperature}
)

// LookupError is a failed lookup stage.
// Message is safe to show to the user and may be empty; Err is the underlying cause.
type LookupError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is reports whether target is a LookupError of the same kind
func (e *LookupError) Is(target error) bool {
	t, ok := target.(*LookupError)
	return ok && t.Kind == e.Kind
}

func ValidationError(msg string) *LookupError {
	return &LookupError{Kind: KindValidation, Message: msg}
}

func NotFoundError(msg string) *LookupError {
	return &LookupError{Kind: KindNotFound, Message: msg}
}

// NetworkError wraps a transport, status or payload failure. It carries no user message.
func NetworkError(err error) *LookupError {
	return &LookupError{Kind: KindNetwork, Err: err}
}

func DataUnavailableError(msg string) *LookupError {
	return &LookupError{Kind: KindDataUnavailable, Message: msg}
}

func InvalidCoordinatesError(msg string, lat, lon float64) *LookupError {
	return &LookupError{
		Kind:    KindInvalidCoordinates,
		Message: msg,
		Err:     fmt.Errorf("latitude=%v longitude=%v", lat, lon),
	}
}

func InvalidTemperatureError(msg string) *LookupError {
	return &LookupError{Kind: KindInvalidTemperature, Message: msg}
}

// KindOf returns the kind of the first LookupError in err's chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// UserMessage returns the user-facing message carried by err, or fallback when it has none
func UserMessage(err error, fallback string) string {
	var le *LookupError
	if errors.As(err, &le) && le.Message != "" {
		return le.Message
	}
	return fallback
}

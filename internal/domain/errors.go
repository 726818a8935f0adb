package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested entity doesn't exist in the store
	ErrNotFound = errors.New("not found")

	// ErrInvalidIDLength is returned when an encoded identifier is not exactly 32 bytes
	ErrInvalidIDLength = errors.New("invalid identifier length")

	// ErrUnknownEvent is returned when a log does not match any known event signature
	ErrUnknownEvent = errors.New("unknown event signature")

	// ErrMalformedEvent is returned when a known event carries unexpected parameters
	ErrMalformedEvent = errors.New("malformed event")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// MalformedParamErr describes a decoded event parameter that was missing or had the wrong type.
type MalformedParamErr struct {
	Event string
	Param string
	Got   any
}

func (e MalformedParamErr) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: missing parameter %q", e.Event, e.Param)
	}
	return fmt.Sprintf("%s: parameter %q has unexpected type %T", e.Event, e.Param, e.Got)
}

func (e MalformedParamErr) Unwrap() error {
	return ErrMalformedEvent
}

package event

import "errors"

// Sentinel kinds for event validation. Callers use errors.Is.
var (
	ErrInvalidEvent = errors.New("invalid event")
)

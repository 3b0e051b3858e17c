package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the ddcswitch domain.
// They can be checked with errors.Is.
var (
	// ErrInvalidCommand is returned when a control code or value does not fit in 8 bits.
	ErrInvalidCommand = errors.New("ddcswitch: invalid command")

	// ErrDisplayNotFound is returned when an identifier no longer matches an attached display.
	ErrDisplayNotFound = errors.New("ddcswitch: display not found")

	// ErrNotDDCCapable is returned when a display has no DDC/CI bus.
	// It is an expected outcome, not a failure.
	ErrNotDDCCapable = errors.New("ddcswitch: display is not DDC capable")

	// ErrTransportFailure is returned when the bus rejected a frame after all retries.
	ErrTransportFailure = errors.New("ddcswitch: transport failure")

	// ErrIndexOutOfRange is returned when a single-target dispatch names a missing index.
	ErrIndexOutOfRange = errors.New("ddcswitch: display index out of range")

	// ErrMalformedFrame is returned when decoding a frame that Encode could not have produced.
	ErrMalformedFrame = errors.New("ddcswitch: malformed frame")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindInvalidCommand   ErrorKind = "invalid_command"
	KindDisplayNotFound  ErrorKind = "display_not_found"
	KindNotDDCCapable    ErrorKind = "not_ddc_capable"
	KindTransportFailure ErrorKind = "transport_failure"
	KindIndexOutOfRange  ErrorKind = "index_out_of_range"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op      string
	Kind    ErrorKind
	Display DisplayID // Optional: display the operation targeted
	Err     error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Display != "" {
		base += fmt.Sprintf(" (display=%s)", e.Display)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

package domain

// OutcomeKind classifies a per-display dispatch result.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSkipped
	OutcomeDisplayNotFound
	OutcomeTransportFailure
	OutcomeCanceled
)

// String returns a human-readable representation of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDisplayNotFound:
		return "display_not_found"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// WriteOutcome is the result of dispatching one command to one display.
type WriteOutcome struct {
	Display DisplayID
	Kind    OutcomeKind

	// Attempts is the number of transmissions made on the bus.
	Attempts int

	// Err carries the cause for anything other than success.
	Err error
}

// OK reports whether the display accepted the command.
func (o WriteOutcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Failed reports whether the outcome counts as a failure. Skips are not failures.
func (o WriteOutcome) Failed() bool {
	return o.Kind != OutcomeSuccess && o.Kind != OutcomeSkipped
}

// Result maps each targeted display to its outcome.
type Result map[DisplayID]WriteOutcome

// Failed returns the outcomes that count as failures.
func (r Result) Failed() []WriteOutcome {
	var out []WriteOutcome
	for _, o := range r {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many outcomes have the given kind.
func (r Result) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

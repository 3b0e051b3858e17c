package ddcswitch

import (
	"time"

	"github.com/bft-labs/ddcswitch/internal/domain"
)

// OutcomeEvent is emitted when a display's command has completed.
type OutcomeEvent struct {
	Display  DisplayID
	Kind     OutcomeKind
	Attempts int
	Err      error

	// Duration covers locating, encoding and writing, including waits.
	Duration time.Duration
}

// EventHandler receives per-display notifications.
type EventHandler interface {
	OnOutcome(event OutcomeEvent)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(event OutcomeEvent)

// OnOutcome calls f(event).
func (f EventHandlerFunc) OnOutcome(event OutcomeEvent) {
	f(event)
}

// eventEmitterWrapper adapts EventHandler to the dispatcher's emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnOutcome(outcome domain.WriteOutcome, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnOutcome(OutcomeEvent{
		Display:  outcome.Display,
		Kind:     outcome.Kind,
		Attempts: outcome.Attempts,
		Err:      outcome.Err,
		Duration: duration,
	})
}

package ddcswitch

import (
	logAdapter "github.com/bft-labs/ddcswitch/internal/adapters/log"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Locator resolves display IDs to bus handles and enumerates displays.
type Locator = ports.DisplayLocator

// Bus opens connections to DDC/CI control buses.
type Bus = ports.Bus

// BusConn is an open connection to a display's control bus.
type BusConn = ports.BusConn

// Clock is the time source used for bus pacing.
type Clock = ports.Clock

// Option configures optional behavior of a Switcher.
type Option func(*options)

// options holds the optional configuration for a Switcher instance.
type options struct {
	logger       ports.Logger
	eventHandler EventHandler
	locator      ports.DisplayLocator
	bus          ports.Bus
	clock        ports.Clock
}

// defaultOptions returns options with a silent logger. Locator and bus are
// filled in from Config by New when not set.
func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, or nil, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler notified once per display per dispatch.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithLocator replaces the sysfs display locator.
func WithLocator(locator Locator) Option {
	return func(o *options) {
		o.locator = locator
	}
}

// WithBus replaces the i2c-dev bus transport.
func WithBus(bus Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithClock replaces the wall clock used for quiescence waits.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

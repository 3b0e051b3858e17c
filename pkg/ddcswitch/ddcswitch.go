package ddcswitch

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/ddcswitch/internal/adapters/i2c"
	"github.com/bft-labs/ddcswitch/internal/adapters/sysfs"
	"github.com/bft-labs/ddcswitch/internal/app"
	"github.com/bft-labs/ddcswitch/internal/domain"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// Re-exported domain types.
type (
	// Display is an attached monitor as reported by the locator.
	Display = domain.Display

	// DisplayID identifies a display for the lifetime of its connection.
	DisplayID = domain.DisplayID

	// BusHandle addresses a display's DDC/CI control bus.
	BusHandle = domain.BusHandle

	// Command is a VCP Set request.
	Command = domain.Command

	// Frame is an encoded VCP Set frame.
	Frame = domain.Frame

	// WriteOutcome is the result for one display.
	WriteOutcome = domain.WriteOutcome

	// OutcomeKind classifies a WriteOutcome.
	OutcomeKind = domain.OutcomeKind

	// Result maps each targeted display to its outcome.
	Result = domain.Result

	// OpError wraps a failure with the operation and display involved.
	OpError = domain.OpError
)

// Outcome kinds.
const (
	OutcomeSuccess          = domain.OutcomeSuccess
	OutcomeSkipped          = domain.OutcomeSkipped
	OutcomeDisplayNotFound  = domain.OutcomeDisplayNotFound
	OutcomeTransportFailure = domain.OutcomeTransportFailure
	OutcomeCanceled         = domain.OutcomeCanceled
)

// Common VCP control codes.
const (
	VCPInputSource = domain.VCPInputSource
	VCPPowerMode   = domain.VCPPowerMode
)

// Errors reported by the switcher and the bus transport.
var (
	ErrInvalidCommand   = domain.ErrInvalidCommand
	ErrDisplayNotFound  = domain.ErrDisplayNotFound
	ErrNotDDCCapable    = domain.ErrNotDDCCapable
	ErrTransportFailure = domain.ErrTransportFailure
	ErrIndexOutOfRange  = domain.ErrIndexOutOfRange

	ErrNak            = ports.ErrNak
	ErrTimeout        = ports.ErrTimeout
	ErrBusUnavailable = ports.ErrBusUnavailable
)

// Encode builds the VCP Set frame for cmd.
func Encode(cmd Command) (Frame, error) {
	return domain.Encode(cmd)
}

// Config holds the settings for a Switcher.
type Config struct {
	// SysfsRoot is the DRM class directory used to enumerate displays.
	SysfsRoot string

	// DevDir holds the i2c-N device nodes.
	DevDir string

	// Quiescence is the minimum time between commands on one bus.
	Quiescence time.Duration

	// Retries is the number of extra attempts after a NAK or timeout.
	Retries int

	// Concurrency bounds parallel display writes. Zero is unbounded.
	Concurrency int
}

// DefaultConfig returns a Config with the standard Linux paths and DDC/CI timing.
func DefaultConfig() Config {
	return Config{
		SysfsRoot:  sysfs.DefaultRoot,
		DevDir:     sysfs.DefaultDevDir,
		Quiescence: app.DefaultQuiescence,
		Retries:    app.DefaultRetries,
	}
}

// SetDefaults fills unset paths. Zero Quiescence and Retries are kept as given.
func (c *Config) SetDefaults() {
	if c.SysfsRoot == "" {
		c.SysfsRoot = sysfs.DefaultRoot
	}
	if c.DevDir == "" {
		c.DevDir = sysfs.DefaultDevDir
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Quiescence < 0 {
		return errors.New("ddcswitch: quiescence must not be negative")
	}
	if c.Retries < 0 {
		return errors.New("ddcswitch: retries must not be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("ddcswitch: concurrency must not be negative")
	}
	return nil
}

// Switcher sends VCP Set commands to attached displays.
// It is safe for concurrent use; commands to the same bus are serialized.
type Switcher struct {
	config     Config
	dispatcher *app.Dispatcher
}

// New creates a Switcher. Without WithLocator and WithBus it uses the Linux
// sysfs locator and i2c-dev transport.
func New(cfg Config, opts ...Option) (*Switcher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.locator == nil {
		o.locator = sysfs.NewLocator(cfg.SysfsRoot, cfg.DevDir)
	}
	if o.bus == nil {
		o.bus = i2c.NewBus()
	}
	if o.clock == nil {
		o.clock = app.SystemClock{}
	}

	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	writer := app.NewWriter(app.WriterConfig{
		Quiescence: cfg.Quiescence,
		Retries:    cfg.Retries,
	}, o.bus, o.clock, o.logger)

	dispatcher := app.NewDispatcher(app.DispatcherConfig{
		Concurrency: cfg.Concurrency,
	}, o.locator, writer, o.clock, o.logger, &emitter)

	return &Switcher{
		config:     cfg,
		dispatcher: dispatcher,
	}, nil
}

// Config returns the configuration the Switcher was built with.
func (s *Switcher) Config() Config {
	return s.config
}

// Displays returns the currently attached displays in host order.
// Indexes into this list are what SwitchOne accepts.
func (s *Switcher) Displays(ctx context.Context) ([]Display, error) {
	return s.dispatcher.Displays(ctx)
}

// SwitchAll sets control code to value on every attached display.
func (s *Switcher) SwitchAll(ctx context.Context, code, value int) (Result, error) {
	return s.dispatcher.SwitchAll(ctx, Command{ControlCode: code, NewValue: value})
}

// SwitchOne sets control code to value on the display at index in Displays().
func (s *Switcher) SwitchOne(ctx context.Context, index, code, value int) (Result, error) {
	return s.dispatcher.SwitchOne(ctx, index, Command{ControlCode: code, NewValue: value})
}

// Dispatch sends cmd to the given displays. Unknown IDs are reported as
// OutcomeDisplayNotFound and duplicates are written once.
func (s *Switcher) Dispatch(ctx context.Context, targets []DisplayID, cmd Command) (Result, error) {
	return s.dispatcher.Dispatch(ctx, targets, cmd)
}

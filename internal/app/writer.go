package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/ddcswitch/internal/domain"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// Default bus timing. DDC/CI requires 50ms between a write and the next
// command to the same display.
const (
	DefaultQuiescence = 50 * time.Millisecond
	DefaultRetries    = 2
)

// WriterConfig contains bus timing and retry settings.
type WriterConfig struct {
	// Quiescence is the minimum idle time between commands on one bus.
	Quiescence time.Duration

	// Retries is the number of extra attempts after a NAK or timeout.
	Retries int
}

// Writer implements ports.FrameWriter. Commands to the same bus handle are
// serialized and spaced by Quiescence; different handles proceed in parallel.
type Writer struct {
	config WriterConfig
	bus    ports.Bus
	clock  ports.Clock
	logger ports.Logger

	mu    sync.Mutex
	lanes map[string]*lane
}

// lane tracks the last command issued on one bus.
type lane struct {
	mu   sync.Mutex
	last time.Time
}

// NewWriter creates a new writer with the given dependencies.
func NewWriter(config WriterConfig, bus ports.Bus, clock ports.Clock, logger ports.Logger) *Writer {
	if config.Retries < 0 {
		config.Retries = 0
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Writer{
		config: config,
		bus:    bus,
		clock:  clock,
		logger: logger,
		lanes:  make(map[string]*lane),
	}
}

// Write transmits frame on handle. It never returns an error; transport
// problems are reported in the outcome. A transmission that has started is
// never interrupted, but ctx may cancel the quiescence wait before it.
func (w *Writer) Write(ctx context.Context, handle domain.BusHandle, frame domain.Frame) domain.WriteOutcome {
	if handle.Path == "" {
		return transportFailure(0, fmt.Errorf("%w: empty bus handle", ports.ErrBusUnavailable))
	}

	l := w.lane(handle.Path)
	l.mu.Lock()
	defer l.mu.Unlock()

	conn, err := w.bus.Open(handle)
	if err != nil {
		w.logger.Warn("bus open failed", ports.String("bus", handle.Path), ports.Err(err))
		return transportFailure(0, err)
	}
	defer conn.Close()

	payload := frame.Payload()
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= w.config.Retries; attempt++ {
		if err := w.pace(ctx, l); err != nil {
			return domain.WriteOutcome{
				Kind:     domain.OutcomeCanceled,
				Attempts: attempts,
				Err:      err,
			}
		}

		attempts++
		err := conn.Transmit(payload)
		l.last = w.clock.Now()
		if err == nil {
			return domain.WriteOutcome{Kind: domain.OutcomeSuccess, Attempts: attempts}
		}

		lastErr = err
		if !retryable(err) {
			break
		}
		if attempt < w.config.Retries {
			w.logger.Debug("bus write rejected, retrying",
				ports.String("bus", handle.Path),
				ports.Int("attempt", attempts),
				ports.Err(err),
			)
		}
	}

	w.logger.Warn("bus write failed",
		ports.String("bus", handle.Path),
		ports.Int("attempts", attempts),
		ports.Bool("retryable", retryable(lastErr)),
		ports.Err(lastErr),
	)
	return transportFailure(attempts, lastErr)
}

// pace waits until the quiescence interval has passed since the last
// command on l, or ctx is done.
func (w *Writer) pace(ctx context.Context, l *lane) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.last.IsZero() {
		return nil
	}
	remaining := w.config.Quiescence - w.clock.Now().Sub(l.last)
	if remaining <= 0 {
		return nil
	}
	return w.clock.Sleep(ctx, remaining)
}

func (w *Writer) lane(path string) *lane {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.lanes[path]
	if !ok {
		l = &lane{}
		w.lanes[path] = l
	}
	return l
}

func retryable(err error) bool {
	return errors.Is(err, ports.ErrNak) || errors.Is(err, ports.ErrTimeout)
}

func transportFailure(attempts int, cause error) domain.WriteOutcome {
	return domain.WriteOutcome{
		Kind:     domain.OutcomeTransportFailure,
		Attempts: attempts,
		Err:      fmt.Errorf("%w: %w", domain.ErrTransportFailure, cause),
	}
}

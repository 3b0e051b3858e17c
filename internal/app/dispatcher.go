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

// DispatcherConfig contains configuration for the dispatcher.
type DispatcherConfig struct {
	// Concurrency bounds how many displays are written at once.
	// Zero means one goroutine per target; 1 dispatches sequentially.
	Concurrency int
}

// OutcomeEmitter is called once per targeted display after its outcome is known.
type OutcomeEmitter interface {
	OnOutcome(outcome domain.WriteOutcome, duration time.Duration)
}

// Dispatcher fans a command out to displays and aggregates the outcomes.
// It performs no retries of its own.
type Dispatcher struct {
	config  DispatcherConfig
	locator ports.DisplayLocator
	writer  ports.FrameWriter
	clock   ports.Clock
	logger  ports.Logger
	emitter OutcomeEmitter
}

// NewDispatcher creates a new dispatcher with the given dependencies.
// A nil clock selects the wall clock.
func NewDispatcher(
	config DispatcherConfig,
	locator ports.DisplayLocator,
	writer ports.FrameWriter,
	clock ports.Clock,
	logger ports.Logger,
	emitter OutcomeEmitter,
) *Dispatcher {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Dispatcher{
		config:  config,
		locator: locator,
		writer:  writer,
		clock:   clock,
		logger:  logger,
		emitter: emitter,
	}
}

// Displays returns the displays currently known to the locator.
func (d *Dispatcher) Displays(ctx context.Context) ([]domain.Display, error) {
	return d.locator.Displays(ctx)
}

// SwitchAll sends cmd to every currently attached display.
func (d *Dispatcher) SwitchAll(ctx context.Context, cmd domain.Command) (domain.Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	displays, err := d.locator.Displays(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate displays: %w", err)
	}

	targets := make([]domain.DisplayID, len(displays))
	for i, disp := range displays {
		targets[i] = disp.ID
	}
	return d.Dispatch(ctx, targets, cmd)
}

// SwitchOne sends cmd to the display at index in the current display list.
// An invalid index fails the call before any bus I/O.
func (d *Dispatcher) SwitchOne(ctx context.Context, index int, cmd domain.Command) (domain.Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	displays, err := d.locator.Displays(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate displays: %w", err)
	}

	if index < 0 || index >= len(displays) {
		return nil, &domain.OpError{
			Op:   "switch one",
			Kind: domain.KindIndexOutOfRange,
			Err:  fmt.Errorf("%w: index %d, %d displays attached", domain.ErrIndexOutOfRange, index, len(displays)),
		}
	}
	return d.Dispatch(ctx, []domain.DisplayID{displays[index].ID}, cmd)
}

// Dispatch sends cmd to each target independently. Per-display failures are
// recorded in the result and never abort the batch; only an invalid command
// fails the call. cmd is encoded once and the same frame goes to every target.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []domain.DisplayID, cmd domain.Command) (domain.Result, error) {
	frame, err := domain.Encode(cmd)
	if err != nil {
		return nil, err
	}

	targets = uniqueTargets(targets)
	result := make(domain.Result, len(targets))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem chan struct{}
	)
	if d.config.Concurrency > 0 {
		sem = make(chan struct{}, d.config.Concurrency)
	}

	for _, id := range targets {
		wg.Add(1)
		go func(id domain.DisplayID) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			outcome := d.dispatchOne(ctx, id, frame)

			mu.Lock()
			result[id] = outcome
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	d.logger.Info("dispatch complete",
		ports.Hex("code", cmd.ControlCode),
		ports.Hex("value", cmd.NewValue),
		ports.Int("targets", len(targets)),
		ports.Int("succeeded", result.Count(domain.OutcomeSuccess)),
		ports.Int("skipped", result.Count(domain.OutcomeSkipped)),
		ports.Int("failed", len(result.Failed())),
	)
	return result, nil
}

// dispatchOne runs Locate and Write for a single display.
func (d *Dispatcher) dispatchOne(ctx context.Context, id domain.DisplayID, frame domain.Frame) domain.WriteOutcome {
	start := d.clock.Now()
	outcome := d.deliver(ctx, id, frame)
	outcome.Display = id
	duration := d.clock.Now().Sub(start)

	switch outcome.Kind {
	case domain.OutcomeSuccess:
		d.logger.Info("display switched",
			ports.String("display", string(id)),
			ports.Int("attempts", outcome.Attempts),
			ports.Duration("duration", duration),
		)
	case domain.OutcomeSkipped:
		d.logger.Debug("display skipped", ports.String("display", string(id)), ports.Err(outcome.Err))
	default:
		d.logger.Error("display write failed",
			ports.String("display", string(id)),
			ports.String("outcome", outcome.Kind.String()),
			ports.Int("attempts", outcome.Attempts),
			ports.Err(outcome.Err),
		)
	}

	if d.emitter != nil {
		d.emitter.OnOutcome(outcome, duration)
	}
	return outcome
}

func (d *Dispatcher) deliver(ctx context.Context, id domain.DisplayID, frame domain.Frame) domain.WriteOutcome {
	handle, err := d.locator.Locate(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotDDCCapable):
		return domain.WriteOutcome{
			Kind: domain.OutcomeSkipped,
			Err:  &domain.OpError{Op: "locate", Kind: domain.KindNotDDCCapable, Display: id, Err: err},
		}
	case err != nil:
		if !errors.Is(err, domain.ErrDisplayNotFound) {
			err = fmt.Errorf("%w: %w", domain.ErrDisplayNotFound, err)
		}
		return domain.WriteOutcome{
			Kind: domain.OutcomeDisplayNotFound,
			Err:  &domain.OpError{Op: "locate", Kind: domain.KindDisplayNotFound, Display: id, Err: err},
		}
	}

	outcome := d.writer.Write(ctx, handle, frame)
	if outcome.Kind == domain.OutcomeTransportFailure {
		outcome.Err = &domain.OpError{Op: "write", Kind: domain.KindTransportFailure, Display: id, Err: outcome.Err}
	}
	return outcome
}

// uniqueTargets drops repeated identifiers, keeping first occurrence order.
func uniqueTargets(targets []domain.DisplayID) []domain.DisplayID {
	seen := make(map[domain.DisplayID]struct{}, len(targets))
	out := make([]domain.DisplayID, 0, len(targets))
	for _, id := range targets {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

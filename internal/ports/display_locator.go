package ports

import (
	"context"

	"github.com/bft-labs/ddcswitch/internal/domain"
)

// DisplayLocator owns the host's display-to-bus state.
type DisplayLocator interface {
	// Displays returns the currently attached displays in host order.
	// The order is not stable across reconfiguration.
	Displays(ctx context.Context) ([]domain.Display, error)

	// Locate resolves id to the bus handle of its embedded controller.
	// Returns domain.ErrNotDDCCapable when the display has no bus and
	// domain.ErrDisplayNotFound when id no longer matches an attached display.
	Locate(ctx context.Context, id domain.DisplayID) (domain.BusHandle, error)
}

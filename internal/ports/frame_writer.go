package ports

import (
	"context"

	"github.com/bft-labs/ddcswitch/internal/domain"
)

// FrameWriter transmits encoded frames to a display's control bus.
// Implementations enforce bus timing and retries internally and report
// the result as an outcome rather than an error.
type FrameWriter interface {
	Write(ctx context.Context, handle domain.BusHandle, frame domain.Frame) domain.WriteOutcome
}

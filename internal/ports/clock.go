package ports

import (
	"context"
	"time"
)

// Clock abstracts time for bus pacing.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

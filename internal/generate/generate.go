package generate

import (
	"context"
	"errors"
	"time"
)

// DefaultDelay is the simulated backend latency.
const DefaultDelay = 1500 * time.Millisecond

// ErrBlankDescription is returned by Run for empty or whitespace-only input.
// Interactive callers treat it as a silent no-op.
var ErrBlankDescription = errors.New("blank description")

// Run waits delay and then classifies description. The wait is abandoned when
// ctx is done, in which case ctx.Err() is returned and nothing is produced.
func Run(ctx context.Context, description string, delay time.Duration) (Result, error) {
	if IsBlank(description) {
		return Result{}, ErrBlankDescription
	}
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Classify(description), nil
}

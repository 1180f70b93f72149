package vcmd

import (
	"context"
	"strconv"
	"time"
)

// sleepHandler implements `sleep <seconds>`, returning early with a
// non-nil error the moment ctx is cancelled rather than waiting out
// the full duration, matching spec.md's cancellation-liveness target.
func sleepHandler(ctx context.Context, call *Call) (Result, error) {
	secs := 0.0
	if len(call.Args) > 0 {
		if v, err := strconv.ParseFloat(call.Args[0], 64); err == nil {
			secs = v
		}
	}
	timer := time.NewTimer(time.Duration(secs * float64(time.Second)))
	defer timer.Stop()

	select {
	case <-timer.C:
		return Result{}, nil
	case <-ctx.Done():
		return Result{Code: 130}, ctx.Err()
	}
}

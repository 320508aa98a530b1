// Package delay provides the delay step handler, an inline sleep capped at
// 30 seconds per step.
package delay

import (
	"context"
	"log/slog"
	"time"
)

const maxDelaySeconds = 30

// Step blocks the execution for its configured duration. The cap bounds the
// worst-case duration of Execute to the sum of the per-step caps.
type Step struct {
	Seconds float64
}

func NewStep(config map[string]any) (*Step, error) {
	seconds := 1.0

	switch v := config["seconds"].(type) {
	case float64:
		seconds = v
	case int:
		seconds = float64(v)
	}

	return &Step{Seconds: seconds}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	wait := min(s.Seconds, maxDelaySeconds)

	timer := time.NewTimer(time.Duration(wait * float64(time.Second)))
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// The reported value is the configured delay, not the capped one.
	return map[string]any{"delayed": s.Seconds}, nil
}

package delay

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayReportsConfiguredSeconds(t *testing.T) {
	t.Parallel()

	step, err := NewStep(map[string]any{"seconds": 0.01})
	require.NoError(t, err)

	start := time.Now()
	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, map[string]any{"delayed": 0.01}, result)
}

func TestDelayDefaultsToOneSecond(t *testing.T) {
	t.Parallel()

	step, err := NewStep(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, step.Seconds)
}

func TestDelayIntSeconds(t *testing.T) {
	t.Parallel()

	step, err := NewStep(map[string]any{"seconds": 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, step.Seconds)
}

func TestDelayCancelledByContext(t *testing.T) {
	t.Parallel()

	step, err := NewStep(map[string]any{"seconds": 30})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = step.Execute(ctx, map[string]any{}, slog.Default())

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

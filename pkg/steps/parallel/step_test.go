package parallel

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelRunsAllSubSteps(t *testing.T) {
	t.Parallel()

	var order []string

	runner := func(ctx context.Context, step models.WorkflowStep, variables map[string]any, logger *slog.Logger) (any, error) {
		order = append(order, step.ID)

		return map[string]any{"step_id": step.ID}, nil
	}

	step, err := NewStep(map[string]any{
		"steps": []any{
			map[string]any{"id": "email", "type": "notify", "config": map[string]any{"channel": "email"}},
			map[string]any{"id": "whatsapp", "type": "notify", "config": map[string]any{"channel": "whatsapp"}},
		},
	}, runner)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"email", "whatsapp"}, order)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", out["status"])

	results, ok := out["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 2)
}

func TestParallelSharesContext(t *testing.T) {
	t.Parallel()

	runner := func(ctx context.Context, step models.WorkflowStep, variables map[string]any, logger *slog.Logger) (any, error) {
		return variables["shared"], nil
	}

	step, err := NewStep(map[string]any{
		"steps": []any{map[string]any{"id": "s1", "type": "action"}},
	}, runner)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{"shared": "yes"}, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)

	results, ok := out["results"].([]any)
	require.True(t, ok)
	assert.Equal(t, "yes", results[0])
}

func TestParallelFailureDoesNotHaltSiblings(t *testing.T) {
	t.Parallel()

	runner := func(ctx context.Context, step models.WorkflowStep, variables map[string]any, logger *slog.Logger) (any, error) {
		if step.ID == "bad" {
			return nil, errors.New("delivery failed")
		}

		return map[string]any{"ok": true}, nil
	}

	step, err := NewStep(map[string]any{
		"steps": []any{
			map[string]any{"id": "bad", "type": "notify"},
			map[string]any{"id": "good", "type": "notify"},
		},
	}, runner)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", out["status"])

	results, ok := out["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "error", first["status"])
	assert.Contains(t, first["error"], "delivery failed")
}

func TestParallelWithoutSteps(t *testing.T) {
	t.Parallel()

	step, err := NewStep(map[string]any{}, nil)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", out["status"])
	assert.Empty(t, out["results"])
}

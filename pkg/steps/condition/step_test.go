package condition

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory()
	assert.Equal(t, "condition", string(factory.ID()))
}

func TestStepExecute(t *testing.T) {
	t.Parallel()

	variables := map[string]any{
		"status": "approved",
		"amount": 150.0,
		"count":  3,
		"note":   "overdue invoice",
	}

	tests := []struct {
		name   string
		config map[string]any
		want   bool
	}{
		{
			name:   "equality match",
			config: map[string]any{"field": "status", "operator": "==", "value": "approved"},
			want:   true,
		},
		{
			name:   "equality miss",
			config: map[string]any{"field": "status", "operator": "==", "value": "rejected"},
			want:   false,
		},
		{
			name:   "numeric equality across types",
			config: map[string]any{"field": "count", "operator": "==", "value": 3.0},
			want:   true,
		},
		{
			name:   "not equal",
			config: map[string]any{"field": "status", "operator": "!=", "value": "rejected"},
			want:   true,
		},
		{
			name:   "greater than",
			config: map[string]any{"field": "amount", "operator": ">", "value": 100},
			want:   true,
		},
		{
			name:   "greater than with string operand",
			config: map[string]any{"field": "amount", "operator": ">", "value": "100"},
			want:   true,
		},
		{
			name:   "less or equal miss",
			config: map[string]any{"field": "amount", "operator": "<=", "value": 100},
			want:   false,
		},
		{
			name:   "numeric coercion failure is false not error",
			config: map[string]any{"field": "status", "operator": ">", "value": 10},
			want:   false,
		},
		{
			name:   "contains",
			config: map[string]any{"field": "note", "operator": "contains", "value": "overdue"},
			want:   true,
		},
		{
			name:   "exists",
			config: map[string]any{"field": "status", "operator": "exists"},
			want:   true,
		},
		{
			name:   "exists on missing field",
			config: map[string]any{"field": "missing", "operator": "exists"},
			want:   false,
		},
		{
			name:   "unknown operator falls back to equality",
			config: map[string]any{"field": "status", "operator": "matches", "value": "approved"},
			want:   true,
		},
		{
			name:   "missing operator defaults to equality",
			config: map[string]any{"field": "status", "value": "approved"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			step, err := NewStep(tt.config)
			require.NoError(t, err)

			result, err := step.Execute(context.Background(), variables, slog.Default())
			require.NoError(t, err)

			out, ok := result.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.want, out["result"])
			assert.Equal(t, true, out["condition"])
			assert.Equal(t, step.Field, out["field"])
		})
	}
}

package transform

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, config, variables map[string]any) map[string]any {
	t.Helper()

	step, err := NewStep(config)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), variables, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)

	return out
}

func TestCount(t *testing.T) {
	t.Parallel()

	out := run(t,
		map[string]any{"operation": "count", "source": "rows"},
		map[string]any{"rows": []any{1, 2, 3}},
	)

	assert.Equal(t, map[string]any{"count": 3}, out["output"])
}

func TestCountNonListCountsAsOne(t *testing.T) {
	t.Parallel()

	out := run(t,
		map[string]any{"operation": "count", "source": "total"},
		map[string]any{"total": 42},
	)

	assert.Equal(t, map[string]any{"count": 1}, out["output"])
}

func TestSum(t *testing.T) {
	t.Parallel()

	out := run(t,
		map[string]any{"operation": "sum", "source": "invoices", "field": "total"},
		map[string]any{"invoices": []any{
			map[string]any{"total": 10.5},
			map[string]any{"total": 4},
			map[string]any{"total": "5.5"},
			"not a row",
		}},
	)

	assert.Equal(t, map[string]any{"sum": 20.0}, out["output"])
}

func TestSumNonNumericFieldIsStepLocalError(t *testing.T) {
	t.Parallel()

	out := run(t,
		map[string]any{"operation": "sum", "source": "invoices", "field": "total"},
		map[string]any{"invoices": []any{map[string]any{"total": "abc"}}},
	)

	assert.Contains(t, out, "error")
}

func TestFilter(t *testing.T) {
	t.Parallel()

	out := run(t,
		map[string]any{"operation": "filter", "source": "rows", "field": "status", "value": "open"},
		map[string]any{"rows": []any{
			map[string]any{"status": "open", "id": 1},
			map[string]any{"status": "closed", "id": 2},
			map[string]any{"status": "open", "id": 3},
		}},
	)

	output, ok := out["output"].(map[string]any)
	require.True(t, ok)

	filtered, ok := output["filtered"].([]any)
	require.True(t, ok)
	require.Len(t, filtered, 2)
}

func TestUnknownOperationReturnsEmptyOutput(t *testing.T) {
	t.Parallel()

	out := run(t,
		map[string]any{"operation": "pivot", "source": "rows"},
		map[string]any{"rows": []any{}},
	)

	assert.Equal(t, map[string]any{}, out["output"])
}

func TestMissingSourceBehavesAsEmptyList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config map[string]any
		want   map[string]any
	}{
		{
			name:   "count",
			config: map[string]any{"operation": "count", "source": "missing"},
			want:   map[string]any{"count": 0},
		},
		{
			name:   "sum",
			config: map[string]any{"operation": "sum", "source": "missing", "field": "x"},
			want:   map[string]any{"sum": 0.0},
		},
		{
			name:   "filter",
			config: map[string]any{"operation": "filter", "source": "missing", "field": "x", "value": 1},
			want:   map[string]any{"filtered": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := run(t, tt.config, map[string]any{})
			assert.Equal(t, tt.want, out["output"])
		})
	}
}

func TestFilterComparesStrictlyAcrossTypes(t *testing.T) {
	t.Parallel()

	rows := []any{
		map[string]any{"id": 1, "priority": float64(1)},
		map[string]any{"id": 2, "priority": 1},
		map[string]any{"id": 3, "priority": "1"},
	}

	// Numeric values match across concrete types.
	out := run(t,
		map[string]any{"operation": "filter", "source": "rows", "field": "priority", "value": 1},
		map[string]any{"rows": rows},
	)

	output, ok := out["output"].(map[string]any)
	require.True(t, ok)

	filtered, ok := output["filtered"].([]any)
	require.True(t, ok)
	require.Len(t, filtered, 2)

	// The string "1" only matches other strings.
	out = run(t,
		map[string]any{"operation": "filter", "source": "rows", "field": "priority", "value": "1"},
		map[string]any{"rows": rows},
	)

	output, ok = out["output"].(map[string]any)
	require.True(t, ok)

	filtered, ok = output["filtered"].([]any)
	require.True(t, ok)
	require.Len(t, filtered, 1)
	assert.Equal(t, 3, filtered[0].(map[string]any)["id"])
}

package query

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	rows  []map[string]any
	err   error
	calls int
	seen  string
}

func (f *fakeExecutor) ExecuteReadOnlyQuery(ctx context.Context, sql string) ([]map[string]any, error) {
	f.calls++
	f.seen = sql

	return f.rows, f.err
}

func TestQuerySuccess(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{rows: []map[string]any{{"id": 1}, {"id": 2}}}
	step, err := NewStep(map[string]any{"sql": "SELECT id FROM records"}, executor)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "executed", out["query"])
	assert.Equal(t, 2, out["row_count"])

	output, ok := out["output"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, executor.rows, output["query_result"])
}

func TestQueryAllowsWith(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{}
	step, err := NewStep(map[string]any{"sql": "with t as (select 1) select * from t"}, executor)
	require.NoError(t, err)

	_, err = step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, executor.calls)
}

func TestQueryRejectsWrites(t *testing.T) {
	t.Parallel()

	tests := []string{
		"DELETE FROM records",
		"update records set x = 1",
		"INSERT INTO records VALUES (1)",
		"DROP TABLE records",
		"  truncate records",
	}

	for _, sql := range tests {
		t.Run(sql, func(t *testing.T) {
			t.Parallel()

			executor := &fakeExecutor{}
			step, err := NewStep(map[string]any{"sql": sql}, executor)
			require.NoError(t, err)

			result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
			require.NoError(t, err)

			out, ok := result.(map[string]any)
			require.True(t, ok)
			assert.Contains(t, out, "error")

			// The statement never reaches the collaborator.
			assert.Zero(t, executor.calls)
		})
	}
}

func TestQueryCollaboratorFailureIsStepLocal(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{err: errors.New("connection refused")}
	step, err := NewStep(map[string]any{"sql": "SELECT 1"}, executor)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, out["error"], "connection refused")
}

func TestQueryWithoutExecutor(t *testing.T) {
	t.Parallel()

	step, err := NewStep(map[string]any{"sql": "SELECT 1"}, nil)
	require.NoError(t, err)

	result, err := step.Execute(context.Background(), map[string]any{}, slog.Default())
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "database not available", out["error"])
}

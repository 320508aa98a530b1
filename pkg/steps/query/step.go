// Package query provides the query step handler. It forwards read-only SQL
// to the host-supplied query collaborator and never lets anything but
// SELECT/WITH statements reach it.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

type Step struct {
	SQL      string
	executor protocol.QueryExecutor
}

func NewStep(config map[string]any, executor protocol.QueryExecutor) (*Step, error) {
	sql, _ := config["sql"].(string)

	return &Step{SQL: sql, executor: executor}, nil
}

// Execute returns a step-local error result for guard and collaborator
// failures; it never fails the execution.
func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	if s.executor == nil {
		return map[string]any{"error": "database not available"}, nil
	}

	if !isReadOnly(s.SQL) {
		logger.Warn("query step rejected non read-only statement")

		return map[string]any{"error": "only SELECT/WITH statements allowed"}, nil
	}

	rows, err := s.executor.ExecuteReadOnlyQuery(ctx, s.SQL)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("query failed: %v", err)}, nil
	}

	return map[string]any{
		"query":     "executed",
		"row_count": len(rows),
		"output":    map[string]any{"query_result": rows},
	}, nil
}

func isReadOnly(sql string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sql))

	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")
}

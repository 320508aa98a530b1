package query

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory(executor protocol.QueryExecutor) *Factory {
	return &Factory{executor: executor}
}

type Factory struct {
	executor protocol.QueryExecutor
}

func (f *Factory) ID() models.StepType {
	return models.StepQuery
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Query Step Configuration",
		"description": "Runs a read-only SQL statement against the host database",
		"properties": map[string]any{
			"sql": map[string]any{
				"type":        "string",
				"format":      "code",
				"description": "SELECT or WITH statement; anything else is rejected",
				"examples": []string{
					"SELECT id, total FROM invoices WHERE status = 'open'",
					"WITH recent AS (SELECT * FROM events ORDER BY at DESC LIMIT 10) SELECT * FROM recent",
				},
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config, f.executor)
}

package transform

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory() *Factory {
	return &Factory{}
}

type Factory struct{}

func (f *Factory) ID() models.StepType {
	return models.StepTransform
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Transform Step Configuration",
		"description": "Aggregates or filters a list variable from the execution context",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "count, sum or filter; anything else produces an empty output",
				"examples":    []string{"count", "sum", "filter"},
			},
			"source": map[string]any{
				"type":        "string",
				"description": "Name of the context variable holding the list",
			},
			"field": map[string]any{
				"type":        "string",
				"description": "Item field used by sum and filter",
			},
			"value": map[string]any{
				"description": "Equality operand for filter",
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config)
}

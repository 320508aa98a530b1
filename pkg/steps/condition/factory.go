package condition

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory() *Factory {
	return &Factory{}
}

type Factory struct{}

func (f *Factory) ID() models.StepType {
	return models.StepCondition
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Condition Step Configuration",
		"description": "Evaluates a variable against a value; the verdict is recorded, not branched on",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Name of the context variable to inspect",
			},
			"operator": map[string]any{
				"type":        "string",
				"description": "Comparison operator",
				"enum":        []string{"==", "!=", ">", "<", ">=", "<=", "contains", "exists"},
				"default":     "==",
			},
			"value": map[string]any{
				"description": "Operand the variable is compared with",
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config)
}

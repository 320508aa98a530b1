package loop

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory(runner protocol.StepRunner) *Factory {
	return &Factory{runner: runner}
}

type Factory struct {
	runner protocol.StepRunner
}

func (f *Factory) ID() models.StepType {
	return models.StepLoop
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Loop Step Configuration",
		"description": "Runs nested sub-steps once per item with item/index in scope",
		"properties": map[string]any{
			"items": map[string]any{
				"description": "A literal list, or the name of a context variable holding one",
			},
			"steps": map[string]any{
				"type":        "array",
				"description": "Sub-steps executed for each item",
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config, f.runner)
}

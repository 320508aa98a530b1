package parallel

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
	return models.StepParallel
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Parallel Step Configuration",
		"description": "Runs a group of sub-steps against the shared context",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":        "array",
				"description": "Sub-steps to run",
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config, f.runner)
}

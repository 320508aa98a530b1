package delay

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory() *Factory {
	return &Factory{}
}

type Factory struct{}

func (f *Factory) ID() models.StepType {
	return models.StepDelay
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Delay Step Configuration",
		"description": "Blocks the execution for a number of seconds, capped at 30",
		"properties": map[string]any{
			"seconds": map[string]any{
				"type":        "number",
				"description": "Seconds to wait",
				"default":     1,
				"maximum":     maxDelaySeconds,
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config)
}

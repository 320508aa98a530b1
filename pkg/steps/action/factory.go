package action

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory(emitter protocol.EventEmitter) *Factory {
	return &Factory{emitter: emitter}
}

type Factory struct {
	emitter protocol.EventEmitter
}

func (f *Factory) ID() models.StepType {
	return models.StepAction
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Action Step Configuration",
		"description": "Runs a built-in action: log, set_variable or emit_event",
		"properties": map[string]any{
			"type": map[string]any{
				"type":        "string",
				"description": "Action sub-type",
				"default":     "log",
				"examples":    []string{"log", "set_variable", "emit_event"},
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message for log actions",
			},
			"key": map[string]any{
				"type":        "string",
				"description": "Variable name for set_variable actions",
			},
			"value": map[string]any{
				"description": "Variable value for set_variable actions",
			},
			"event_type": map[string]any{
				"type":        "string",
				"description": "Event type for emit_event actions",
				"default":     defaultEventType,
			},
			"payload": map[string]any{
				"type":        "object",
				"description": "Event payload for emit_event actions",
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config, f.emitter)
}

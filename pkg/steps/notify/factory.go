package notify

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory() *Factory {
	return &Factory{}
}

type Factory struct{}

func (f *Factory) ID() models.StepType {
	return models.StepNotify
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "Notify Step Configuration",
		"description": "Records a notification for an external dispatcher to deliver",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Notification message",
			},
			"channel": map[string]any{
				"type":        "string",
				"description": "Delivery channel hint",
				"default":     defaultChannel,
				"examples":    []string{"system", "email", "whatsapp"},
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config)
}

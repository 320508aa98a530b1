package httprequest

import (
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

func NewFactory(requester protocol.HTTPRequester) *Factory {
	return &Factory{requester: requester}
}

type Factory struct {
	requester protocol.HTTPRequester
}

func (f *Factory) ID() models.StepType {
	return models.StepHTTP
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":        "object",
		"title":       "HTTP Step Configuration",
		"description": "Performs an outbound HTTP request with a fixed timeout",
		"properties": map[string]any{
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method",
				"default":     "GET",
				"examples":    []string{"GET", "POST", "PUT", "DELETE"},
			},
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL",
			},
			"body": map[string]any{
				"description": "JSON-encoded request body",
			},
		},
		"required": []string{"url"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.StepHandler, error) {
	return NewStep(config, f.requester)
}

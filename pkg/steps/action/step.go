// Package action provides the action step handler with its log,
// set_variable and emit_event sub-types.
package action

import (
	"context"
	"log/slog"

	"github.com/arcadiahq/automation-engine/pkg/events"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

const defaultEventType = "custom.event"

// Step dispatches on its configured sub-type. Unrecognized sub-types echo
// {action, status: executed} so that a definition referencing a host-side
// action still records an outcome.
type Step struct {
	ActionType string
	Config     map[string]any
	emitter    protocol.EventEmitter
}

func NewStep(config map[string]any, emitter protocol.EventEmitter) (*Step, error) {
	actionType, _ := config["type"].(string)
	if actionType == "" {
		actionType = "log"
	}

	return &Step{
		ActionType: actionType,
		Config:     config,
		emitter:    emitter,
	}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	switch s.ActionType {
	case "log":
		message, _ := s.Config["message"].(string)
		logger.Info("workflow log action", "message", message)

		return map[string]any{"action": "log", "message": message}, nil
	case "set_variable":
		key, _ := s.Config["key"].(string)

		return map[string]any{
			"action": "set_variable",
			"output": map[string]any{key: s.Config["value"]},
		}, nil
	case "emit_event":
		eventType, _ := s.Config["event_type"].(string)
		if eventType == "" {
			eventType = defaultEventType
		}

		payload, _ := s.Config["payload"].(map[string]any)
		s.emitter.Emit(events.EventType(eventType), payload)

		return map[string]any{"action": "emit_event", "event_type": eventType}, nil
	default:
		return map[string]any{"action": s.ActionType, "status": "executed"}, nil
	}
}

// Package web provides HTTP request and response types for the management API.
package web

// CreateScheduleRequest represents the request body for registering a
// schedule entry.
type CreateScheduleRequest struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"          validate:"required,min=1"`
	Cron         string         `json:"cron"          validate:"required"`
	AutomationID *int           `json:"automation_id,omitempty"`
	Action       string         `json:"action,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	IsActive     *bool          `json:"is_active,omitempty"`
}

// EmitEventRequest represents the request body for emitting an event.
type EmitEventRequest struct {
	Type    string         `json:"type"    validate:"required,min=1"`
	Payload map[string]any `json:"payload,omitempty"`
}

// SubscribeRequest represents the request body for registering an event
// handler. EventType may be "*" to match every event.
type SubscribeRequest struct {
	EventType string         `json:"event_type" validate:"required,min=1"`
	HandlerID string         `json:"handler_id" validate:"required,min=1"`
	Config    map[string]any `json:"config,omitempty"`
}

// UnsubscribeRequest removes every subscription matching the pair.
type UnsubscribeRequest struct {
	EventType string `json:"event_type" validate:"required,min=1"`
	HandlerID string `json:"handler_id" validate:"required,min=1"`
}

// ExecuteWorkflowRequest represents the request body for running a workflow.
// Both fields are optional; trigger data wins over variables on key clashes.
type ExecuteWorkflowRequest struct {
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
}

// ValidateCronRequest represents the request body for cron validation.
type ValidateCronRequest struct {
	Expression string `json:"expression" validate:"required"`
}

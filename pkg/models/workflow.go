// Package models defines the core domain models of the automation engine.
package models

import "time"

// StepType enumerates the workflow step kinds the executor dispatches on.
type StepType string

const (
	StepCondition StepType = "condition"
	StepAction    StepType = "action"
	StepDelay     StepType = "delay"
	StepLoop      StepType = "loop"
	StepParallel  StepType = "parallel"
	StepQuery     StepType = "query"
	StepHTTP      StepType = "http"
	StepTransform StepType = "transform"
	StepNotify    StepType = "notify"
)

// WorkflowStep is one typed step in a workflow definition. OnSuccess and
// OnFailure are declared by the schema but not consulted by the executor;
// steps always run in definition order.
type WorkflowStep struct {
	ID        string         `json:"id"   validate:"required"`
	Type      StepType       `json:"type" validate:"required"`
	Config    map[string]any `json:"config"`
	OnSuccess *string        `json:"on_success,omitempty"`
	OnFailure *string        `json:"on_failure,omitempty"`
}

// WorkflowDefinition is an ordered sequence of steps plus default variables.
// Definitions are immutable while executions reference them; an execution
// copies what it needs at start.
type WorkflowDefinition struct {
	ID        string         `json:"id"    validate:"required"`
	Name      string         `json:"name"  validate:"required"`
	Steps     []WorkflowStep `json:"steps" validate:"required,dive"`
	Trigger   string         `json:"trigger,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
}

// ExecutionStatus is the terminal state machine of one execution:
// running, then exactly one of completed or error.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionError     ExecutionStatus = "error"
)

// StepResult captures one step's outcome inside an execution.
type StepResult struct {
	StepID     string    `json:"step_id"`
	Type       StepType  `json:"type"`
	Status     string    `json:"status"`
	Result     any       `json:"result"`
	ExecutedAt time.Time `json:"executed_at"`
}

// WorkflowExecution is the record of one workflow run.
type WorkflowExecution struct {
	ID             string          `json:"id"`
	WorkflowID     string          `json:"workflow_id"`
	WorkflowName   string          `json:"workflow_name"`
	Status         ExecutionStatus `json:"status"`
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	StepsCompleted int             `json:"steps_completed"`
	StepsTotal     int             `json:"steps_total"`
	Results        []StepResult    `json:"results"`
	Error          string          `json:"error,omitempty"`
	Variables      map[string]any  `json:"variables"`
}

// Package workflow owns the workflow definitions and runs them step by
// step against a shared variable context.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"sync"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/events"
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/otelhelper"
	"github.com/arcadiahq/automation-engine/pkg/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const maxExecutions = 200

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrInvalidWorkflow  = errors.New("invalid workflow definition")
)

type Stats struct {
	TotalWorkflows  int     `json:"total_workflows"`
	TotalExecutions int     `json:"total_executions"`
	Completed       int     `json:"completed"`
	Errors          int     `json:"errors"`
	SuccessRate     float64 `json:"success_rate"`
}

type Executor struct {
	mu         sync.Mutex
	workflows  map[string]*models.WorkflowDefinition
	executions []*models.WorkflowExecution
	registry   *registry.Registry
	logger     *slog.Logger
}

func NewExecutor(reg *registry.Registry, logger *slog.Logger) *Executor {
	return &Executor{
		workflows: make(map[string]*models.WorkflowDefinition),
		registry:  reg,
		logger:    logger.With("module", "workflow_executor"),
	}
}

// Register stores a workflow definition after validating its shape against
// the definition schema.
func (e *Executor) Register(workflow *models.WorkflowDefinition) error {
	if err := ValidateDefinition(workflow); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.workflows[workflow.ID] = workflow
	e.logger.Info("workflow registered", "workflow_id", workflow.ID, "steps", len(workflow.Steps))

	return nil
}

func (e *Executor) Unregister(workflowID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.workflows, workflowID)
}

func (e *Executor) Get(workflowID string) (*models.WorkflowDefinition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	workflow, ok := e.workflows[workflowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
	}

	return workflow, nil
}

func (e *Executor) ListAll() []*models.WorkflowDefinition {
	e.mu.Lock()
	defer e.mu.Unlock()

	workflows := make([]*models.WorkflowDefinition, 0, len(e.workflows))
	for _, workflow := range e.workflows {
		workflows = append(workflows, workflow)
	}

	return workflows
}

// Execute runs the workflow synchronously on the calling goroutine and
// returns the finished execution record. Step failures never surface as a
// returned error; they are visible in the record's status and error fields.
// The only error case is an unknown workflow id.
func (e *Executor) Execute(ctx context.Context, workflowID string, triggerData, variables map[string]any) (*models.WorkflowExecution, error) {
	workflow, err := e.Get(workflowID)
	if err != nil {
		return nil, err
	}

	tracer := otel.Tracer("automation-engine/workflow")
	ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
	)
	defer span.End()

	started := time.Now()
	execution := &models.WorkflowExecution{
		ID:           events.Fingerprint(workflowID, started),
		WorkflowID:   workflow.ID,
		WorkflowName: workflow.Name,
		Status:       models.ExecutionRunning,
		StartedAt:    started,
		StepsTotal:   len(workflow.Steps),
		Results:      make([]models.StepResult, 0, len(workflow.Steps)),
		Variables:    mergeVariables(workflow.Variables, variables, triggerData),
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))

	logger := e.logger.With("workflow_id", workflow.ID, "execution_id", execution.ID)
	logger.Info("starting workflow execution", "steps_total", execution.StepsTotal)

	for i, step := range workflow.Steps {
		result, err := e.RunStep(ctx, step, execution.Variables, logger)
		if err != nil {
			// Execution-fatal: remaining steps are skipped, completed
			// step results stay in place.
			now := time.Now()
			execution.Status = models.ExecutionError
			execution.Error = err.Error()
			execution.CompletedAt = &now

			otelhelper.SetError(span, err, attribute.String(otelhelper.StepIDKey, step.ID))
			logger.Error("workflow execution failed", "step_id", step.ID, "error", err)

			break
		}

		execution.Results = append(execution.Results, models.StepResult{
			StepID:     step.ID,
			Type:       step.Type,
			Status:     "completed",
			Result:     result,
			ExecutedAt: time.Now(),
		})
		execution.StepsCompleted = i + 1

		// A step result carrying an output map feeds later steps.
		if resultMap, ok := result.(map[string]any); ok {
			if output, ok := resultMap["output"].(map[string]any); ok {
				maps.Copy(execution.Variables, output)
			}
		}
	}

	if execution.Status == models.ExecutionRunning {
		now := time.Now()
		execution.Status = models.ExecutionCompleted
		execution.CompletedAt = &now

		logger.Info("workflow execution completed", "steps_completed", execution.StepsCompleted)
	}

	e.mu.Lock()
	e.executions = append(e.executions, execution)

	if len(e.executions) > maxExecutions {
		e.executions = e.executions[len(e.executions)-maxExecutions:]
	}
	e.mu.Unlock()

	return execution, nil
}

// RunStep dispatches a single step through the factory registry. Unknown
// step types produce an unknown_step_type result instead of failing the
// execution.
func (e *Executor) RunStep(ctx context.Context, step models.WorkflowStep, variables map[string]any, logger *slog.Logger) (any, error) {
	if !e.registry.IsStepRegistered(step.Type) {
		return map[string]any{"type": string(step.Type), "status": "unknown_step_type"}, nil
	}

	handler, err := e.registry.CreateStep(step.Type, step.Config)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", step.ID, err)
	}

	tracer := otel.Tracer("automation-engine/workflow")
	ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.step",
		attribute.String(otelhelper.StepIDKey, step.ID),
		attribute.String(otelhelper.StepTypeKey, string(step.Type)),
	)
	defer span.End()

	result, err := handler.Execute(ctx, variables, logger.With("step_id", step.ID, "step_type", step.Type))
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("step %s: %w", step.ID, err)
	}

	return result, nil
}

// mergeVariables builds the initial context: workflow defaults, then
// caller variables, then trigger data, later sources winning.
func mergeVariables(defaults, variables, triggerData map[string]any) map[string]any {
	merged := make(map[string]any)

	maps.Copy(merged, defaults)
	maps.Copy(merged, variables)
	maps.Copy(merged, triggerData)

	return merged
}

// Executions returns the most recent limit executions, optionally
// filtered to one workflow. History order reflects completion order.
func (e *Executor) Executions(workflowID string, limit int) []*models.WorkflowExecution {
	e.mu.Lock()
	defer e.mu.Unlock()

	matched := e.executions

	if workflowID != "" {
		matched = make([]*models.WorkflowExecution, 0)

		for _, execution := range e.executions {
			if execution.WorkflowID == workflowID {
				matched = append(matched, execution)
			}
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	return append([]*models.WorkflowExecution(nil), matched...)
}

func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := Stats{
		TotalWorkflows:  len(e.workflows),
		TotalExecutions: len(e.executions),
	}

	for _, execution := range e.executions {
		switch execution.Status {
		case models.ExecutionCompleted:
			stats.Completed++
		case models.ExecutionError:
			stats.Errors++
		}
	}

	if stats.TotalExecutions > 0 {
		rate := float64(stats.Completed) / float64(stats.TotalExecutions) * 100

		stats.SuccessRate = math.Round(rate*10) / 10
	}

	return stats
}

// Package protocol defines the contracts between the workflow executor, its
// step handlers and the external collaborators the handlers call into.
package protocol

import (
	"context"
	"log/slog"

	"github.com/arcadiahq/automation-engine/pkg/models"
)

// StepHandler executes one configured workflow step against the execution's
// variable context. A returned error is execution-fatal; step-local failures
// are reported inside the result map under an "error" key instead.
type StepHandler interface {
	Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error)
}

// StepFactory builds handlers for one step type from a step's config map.
type StepFactory interface {
	ID() models.StepType
	Schema() map[string]any
	Create(config map[string]any) (StepHandler, error)
}

// StepRunner executes a nested step. Loop and parallel handlers use it to
// run their sub-steps through the same dispatch as top-level steps.
type StepRunner func(ctx context.Context, step models.WorkflowStep, variables map[string]any, logger *slog.Logger) (any, error)

// Package parallel provides the parallel step handler: it runs a group of
// sub-steps against the shared variable context, recording each outcome.
// Sub-steps run sequentially; the grouping is structural, matching the
// single-threaded execution model of the engine.
package parallel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

type Step struct {
	SubSteps []models.WorkflowStep
	runner   protocol.StepRunner
}

func NewStep(config map[string]any, runner protocol.StepRunner) (*Step, error) {
	subSteps, err := decodeSubSteps(config["steps"])
	if err != nil {
		return nil, err
	}

	return &Step{SubSteps: subSteps, runner: runner}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	results := make([]any, 0, len(s.SubSteps))

	for _, sub := range s.SubSteps {
		result, err := s.runner(ctx, sub, variables, logger)
		if err != nil {
			// A failing sibling does not stop the others.
			results = append(results, map[string]any{
				"step_id": sub.ID,
				"status":  "error",
				"error":   err.Error(),
			})

			continue
		}

		results = append(results, result)
	}

	return map[string]any{
		"status":  "completed",
		"results": results,
	}, nil
}

func decodeSubSteps(raw any) ([]models.WorkflowStep, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}

	steps := make([]models.WorkflowStep, 0, len(list))

	for i, entry := range list {
		stepMap, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("sub-step %d is not an object", i)
		}

		id, _ := stepMap["id"].(string)
		stepType, _ := stepMap["type"].(string)
		config, _ := stepMap["config"].(map[string]any)

		steps = append(steps, models.WorkflowStep{
			ID:     id,
			Type:   models.StepType(stepType),
			Config: config,
		})
	}

	return steps, nil
}

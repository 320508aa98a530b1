// Package loop provides the loop step handler: it runs a nested sequence of
// sub-steps once per item of a list, with a per-iteration variable context.
package loop

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

type Step struct {
	Items    any
	SubSteps []models.WorkflowStep
	runner   protocol.StepRunner
}

func NewStep(config map[string]any, runner protocol.StepRunner) (*Step, error) {
	subSteps, err := decodeSubSteps(config["steps"])
	if err != nil {
		return nil, err
	}

	return &Step{
		Items:    config["items"],
		SubSteps: subSteps,
		runner:   runner,
	}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	items := s.resolveItems(variables)
	results := make([]any, 0, len(items)*len(s.SubSteps))

	for i, item := range items {
		// Each iteration sees a copy of the outer context plus the
		// current item and index; mutations do not leak back out.
		iterVars := maps.Clone(variables)
		iterVars["item"] = item
		iterVars["index"] = i

		for _, sub := range s.SubSteps {
			result, err := s.runner(ctx, sub, iterVars, logger)
			if err != nil {
				results = append(results, map[string]any{
					"step_id": sub.ID,
					"status":  "error",
					"error":   err.Error(),
				})

				continue
			}

			results = append(results, result)

			// Only an explicit error status halts the remaining
			// iterations.
			if errResult, ok := result.(map[string]any); ok && errResult["status"] == "error" {
				return map[string]any{
					"status":     "error",
					"iterations": i + 1,
					"results":    results,
				}, nil
			}
		}
	}

	return map[string]any{
		"status":     "completed",
		"iterations": len(items),
		"results":    results,
	}, nil
}

// resolveItems accepts either a literal list or the name of a context
// variable holding one.
func (s *Step) resolveItems(variables map[string]any) []any {
	switch v := s.Items.(type) {
	case []any:
		return v
	case string:
		if list, ok := variables[v].([]any); ok {
			return list
		}
	}

	return nil
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

// Package registry maps workflow step types to their handler factories.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

type Registry struct {
	logger        *slog.Logger
	stepFactories map[models.StepType]protocol.StepFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:        logger,
		stepFactories: make(map[models.StepType]protocol.StepFactory),
	}
}

func (r *Registry) RegisterStep(factory protocol.StepFactory) {
	r.stepFactories[factory.ID()] = factory
}

// CreateStep builds a handler for one configured step. Unknown step types
// return an error; the executor turns that into an unknown_step_type result
// rather than failing the execution.
func (r *Registry) CreateStep(stepType models.StepType, config map[string]any) (protocol.StepHandler, error) {
	factory, ok := r.stepFactories[stepType]
	if !ok {
		return nil, fmt.Errorf("step type '%s' not registered", stepType)
	}

	return factory.Create(config)
}

func (r *Registry) IsStepRegistered(stepType models.StepType) bool {
	_, ok := r.stepFactories[stepType]

	return ok
}

// StepTypes returns the registered step types in stable order.
func (r *Registry) StepTypes() []models.StepType {
	types := make([]models.StepType, 0, len(r.stepFactories))
	for stepType := range r.stepFactories {
		types = append(types, stepType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// StepSchemas returns the config schema of every registered step type.
func (r *Registry) StepSchemas() map[models.StepType]map[string]any {
	schemas := make(map[models.StepType]map[string]any, len(r.stepFactories))
	for stepType, factory := range r.stepFactories {
		schemas[stepType] = factory.Schema()
	}

	return schemas
}

package main

import (
	"log/slog"

	"github.com/arcadiahq/automation-engine/pkg/eventbus"
	"github.com/arcadiahq/automation-engine/pkg/httpclient"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
	"github.com/arcadiahq/automation-engine/pkg/query"
	"github.com/arcadiahq/automation-engine/pkg/registry"
	"github.com/arcadiahq/automation-engine/pkg/steps/action"
	"github.com/arcadiahq/automation-engine/pkg/steps/condition"
	"github.com/arcadiahq/automation-engine/pkg/steps/delay"
	"github.com/arcadiahq/automation-engine/pkg/steps/httprequest"
	"github.com/arcadiahq/automation-engine/pkg/steps/loop"
	"github.com/arcadiahq/automation-engine/pkg/steps/notify"
	"github.com/arcadiahq/automation-engine/pkg/steps/parallel"
	stepquery "github.com/arcadiahq/automation-engine/pkg/steps/query"
	"github.com/arcadiahq/automation-engine/pkg/steps/transform"
	"github.com/arcadiahq/automation-engine/pkg/workflow"
)

// EngineExecutor pairs the step registry with the workflow executor that
// dispatches through it.
type EngineExecutor struct {
	Registry *registry.Registry
	Executor *workflow.Executor
}

// NewEngineExecutor wires every step factory. Loop and parallel factories
// need the executor's step dispatch, so they are registered after the
// executor exists.
func NewEngineExecutor(logger *slog.Logger, bus *eventbus.Bus, querier *query.Querier) *EngineExecutor {
	reg := registry.NewRegistry(logger)

	// A nil *Querier must stay a nil interface so query steps detect
	// the missing database.
	var queryExecutor protocol.QueryExecutor
	if querier != nil {
		queryExecutor = querier
	}

	reg.RegisterStep(condition.NewFactory())
	reg.RegisterStep(action.NewFactory(bus))
	reg.RegisterStep(delay.NewFactory())
	reg.RegisterStep(stepquery.NewFactory(queryExecutor))
	reg.RegisterStep(httprequest.NewFactory(httpclient.NewClient()))
	reg.RegisterStep(transform.NewFactory())
	reg.RegisterStep(notify.NewFactory())

	executor := workflow.NewExecutor(reg, logger)

	reg.RegisterStep(loop.NewFactory(executor.RunStep))
	reg.RegisterStep(parallel.NewFactory(executor.RunStep))

	return &EngineExecutor{Registry: reg, Executor: executor}
}

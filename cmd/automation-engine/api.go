package main

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/eventbus"
	"github.com/arcadiahq/automation-engine/pkg/query"
	"github.com/arcadiahq/automation-engine/pkg/scheduler"
	"github.com/arcadiahq/automation-engine/pkg/web"
	"github.com/arcadiahq/automation-engine/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
)

type EngineConfig struct {
	DatabaseURL   string
	CheckInterval time.Duration
}

// Engine bundles the running components behind the management API.
type Engine struct {
	logger    *slog.Logger
	Bus       *eventbus.Bus
	Scheduler *scheduler.Scheduler
	Executor  *workflow.Executor
	handlers  *web.APIHandlers
	querier   *query.Querier
}

func NewEngine(ctx context.Context, logger *slog.Logger, config EngineConfig) (*Engine, error) {
	bus := eventbus.NewBus(logger)

	var (
		querier *query.Querier
		db      web.DBPinger
	)

	if config.DatabaseURL != "" {
		q, err := query.NewQuerier(config.DatabaseURL)
		if err != nil {
			return nil, err
		}

		querier = q
		db = q
	} else {
		logger.InfoContext(ctx, "No database configured, query steps will report database not available")
	}

	sched := scheduler.NewScheduler(bus, logger, scheduler.WithCheckInterval(config.CheckInterval))
	executor := NewEngineExecutor(logger, bus, querier)

	handlers := web.NewAPIHandlers(sched, bus, executor.Executor, executor.Registry,
		validator.New(validator.WithRequiredStructEnabled()), db)

	return &Engine{
		logger:    logger,
		Bus:       bus,
		Scheduler: sched,
		Executor:  executor.Executor,
		handlers:  handlers,
		querier:   querier,
	}, nil
}

func (e *Engine) Close() {
	if e.querier != nil {
		if err := e.querier.Close(); err != nil {
			e.logger.Error("Failed to close database", "error", err)
		}
	}
}

func (e *Engine) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	h := e.handlers

	app.Get("/health", h.Health)
	app.Get("/metrics", h.Metrics)

	s := app.Group("/scheduler")
	s.Get("/entries", h.GetScheduleEntries)
	s.Post("/entries", h.CreateScheduleEntry)
	s.Delete("/entries/:id", h.DeleteScheduleEntry)
	s.Post("/start", h.StartScheduler)
	s.Post("/stop", h.StopScheduler)
	s.Get("/stats", h.SchedulerStats)

	ev := app.Group("/events")
	ev.Post("/emit", h.EmitEvent)
	ev.Post("/subscribe", h.Subscribe)
	ev.Post("/unsubscribe", h.Unsubscribe)
	ev.Get("/subscribers", h.EventSubscribers)
	ev.Get("/history", h.EventHistory)
	ev.Get("/stats", h.EventStats)
	ev.Get("/types", h.EventTypes)

	w := app.Group("/workflows")
	w.Post("/", h.CreateWorkflow)
	w.Get("/", h.GetWorkflows)
	w.Get("/stats", h.WorkflowStats)
	w.Get("/:id", h.GetWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)
	w.Post("/:id/execute", h.ExecuteWorkflow)
	w.Get("/:id/executions", h.WorkflowExecutions)

	app.Get("/executions", h.ListExecutions)
	app.Get("/steps", h.GetSteps)
	app.Post("/cron/validate", h.ValidateCron)

	return app
}

func (e *Engine) Start(port int) error {
	return e.App().Listen(":" + strconv.Itoa(port))
}

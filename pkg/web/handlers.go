package web

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/cronexpr"
	"github.com/arcadiahq/automation-engine/pkg/eventbus"
	"github.com/arcadiahq/automation-engine/pkg/events"
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/registry"
	"github.com/arcadiahq/automation-engine/pkg/scheduler"
	"github.com/arcadiahq/automation-engine/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Lists default to 50 items when no limit query parameter is given.
const defaultListLimit = 50

// DBPinger reports database reachability for the health endpoint.
type DBPinger interface {
	Ping(ctx context.Context) error
}

type APIHandlers struct {
	scheduler *scheduler.Scheduler
	bus       *eventbus.Bus
	executor  *workflow.Executor
	registry  *registry.Registry
	validator *validator.Validate
	db        DBPinger
}

func NewAPIHandlers(
	sched *scheduler.Scheduler,
	bus *eventbus.Bus,
	executor *workflow.Executor,
	reg *registry.Registry,
	validator *validator.Validate,
	db DBPinger,
) *APIHandlers {
	return &APIHandlers{
		scheduler: sched,
		bus:       bus,
		executor:  executor,
		registry:  reg,
		validator: validator,
		db:        db,
	}
}

func (h *APIHandlers) Health(c fiber.Ctx) error {
	database := "not_configured"

	if h.db != nil {
		database = "ok"
		if err := h.db.Ping(c.Context()); err != nil {
			database = "unreachable"
		}
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": database,
		"scheduler": fiber.Map{
			"running": h.scheduler.Stats().IsRunning,
		},
	})
}

func (h *APIHandlers) Metrics(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"scheduler": h.scheduler.Stats(),
		"events":    h.bus.Stats(),
		"workflows": h.executor.Stats(),
	})
}

// Scheduler endpoints.

func (h *APIHandlers) GetScheduleEntries(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"entries": h.scheduler.ListAll()})
}

func (h *APIHandlers) CreateScheduleEntry(c fiber.Ctx) error {
	var req CreateScheduleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	entry := &models.ScheduleEntry{
		ID:           req.ID,
		Name:         req.Name,
		Cron:         req.Cron,
		AutomationID: req.AutomationID,
		Action:       req.Action,
		Config:       req.Config,
		IsActive:     true,
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if err := h.scheduler.Add(entry); err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *APIHandlers) DeleteScheduleEntry(c fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.scheduler.Get(id); err != nil {
		return notFound(c, "schedule entry not found")
	}

	h.scheduler.Remove(id)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) StartScheduler(c fiber.Ctx) error {
	h.scheduler.Start()

	return c.JSON(fiber.Map{"running": true})
}

func (h *APIHandlers) StopScheduler(c fiber.Ctx) error {
	h.scheduler.Stop()

	return c.JSON(fiber.Map{"running": false})
}

func (h *APIHandlers) SchedulerStats(c fiber.Ctx) error {
	return c.JSON(h.scheduler.Stats())
}

// Event bus endpoints.

func (h *APIHandlers) EmitEvent(c fiber.Ctx) error {
	var req EmitEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	handlers := h.bus.Emit(events.EventType(req.Type), req.Payload)

	return c.JSON(fiber.Map{
		"type":     req.Type,
		"handlers": handlers,
	})
}

func (h *APIHandlers) Subscribe(c fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	h.bus.Subscribe(req.EventType, req.HandlerID, req.Config)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"event_type": req.EventType,
		"handler_id": req.HandlerID,
	})
}

func (h *APIHandlers) Unsubscribe(c fiber.Ctx) error {
	var req UnsubscribeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	h.bus.Unsubscribe(req.EventType, req.HandlerID)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) EventSubscribers(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"subscribers": h.bus.Subscribers(c.Query("type"))})
}

func (h *APIHandlers) EventHistory(c fiber.Ctx) error {
	limit := defaultListLimit

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}

		limit = parsed
	}

	return c.JSON(fiber.Map{"events": h.bus.History(limit, c.Query("type"))})
}

func (h *APIHandlers) EventStats(c fiber.Ctx) error {
	return c.JSON(h.bus.Stats())
}

func (h *APIHandlers) EventTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": events.KnownTypes()})
}

// Workflow endpoints.

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var definition models.WorkflowDefinition
	if err := c.Bind().JSON(&definition); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.executor.Register(&definition); err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(definition)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"workflows": h.executor.ListAll()})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	definition, err := h.executor.Get(c.Params("id"))
	if err != nil {
		return notFound(c, "workflow not found")
	}

	return c.JSON(definition)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.executor.Get(id); err != nil {
		return notFound(c, "workflow not found")
	}

	h.executor.Unregister(id)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	var req ExecuteWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	execution, err := h.executor.Execute(c.Context(), c.Params("id"), req.TriggerData, req.Variables)
	if err != nil {
		if errors.Is(err, workflow.ErrWorkflowNotFound) {
			return notFound(c, "workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) WorkflowExecutions(c fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.executor.Get(id); err != nil {
		return notFound(c, "workflow not found")
	}

	return c.JSON(fiber.Map{"executions": h.executor.Executions(id, parseLimit(c))})
}

func (h *APIHandlers) ListExecutions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"executions": h.executor.Executions(c.Query("workflow_id"), parseLimit(c)),
	})
}

func (h *APIHandlers) WorkflowStats(c fiber.Ctx) error {
	return c.JSON(h.executor.Stats())
}

// Step and cron endpoints.

func (h *APIHandlers) GetSteps(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"types":   h.registry.StepTypes(),
		"schemas": h.registry.StepSchemas(),
	})
}

func (h *APIHandlers) ValidateCron(c fiber.Ctx) error {
	var req ValidateCronRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	expression, err := cronexpr.Parse(req.Expression)
	if err != nil {
		return c.JSON(fiber.Map{"valid": false, "error": err.Error()})
	}

	instants := expression.NextN(time.Now(), 5)
	nextRuns := make([]string, 0, len(instants))

	for _, instant := range instants {
		nextRuns = append(nextRuns, instant.Format(time.RFC3339))
	}

	return c.JSON(fiber.Map{"valid": true, "next_runs": nextRuns})
}

func parseLimit(c fiber.Ctx) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return defaultListLimit
	}

	return limit
}

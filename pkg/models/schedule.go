package models

import "time"

// ScheduleEntry is one cron-driven schedule owned by the scheduler. LastRun,
// NextRun and RunCount are written only by the scheduler's own check loop.
type ScheduleEntry struct {
	ID           string         `json:"id"            validate:"required"`
	Name         string         `json:"name"          validate:"required"`
	Cron         string         `json:"cron"          validate:"required"`
	AutomationID *int           `json:"automation_id,omitempty"`
	Action       string         `json:"action"`
	Config       map[string]any `json:"config,omitempty"`
	IsActive     bool           `json:"is_active"`
	LastRun      *time.Time     `json:"last_run,omitempty"`
	NextRun      *time.Time     `json:"next_run,omitempty"`
	RunCount     int            `json:"run_count"`
}

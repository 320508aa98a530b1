// Package scheduler owns the cron-driven schedule entries and the background
// loop that fires them through the event bus.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/cronexpr"
	"github.com/arcadiahq/automation-engine/pkg/events"
	"github.com/arcadiahq/automation-engine/pkg/models"
	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

// DefaultCheckInterval is finer than the one-minute cron resolution, so a
// matching minute is normally observed exactly once. Clock drift or a slow
// pass over many entries can still double-check or skip a minute; the loop
// makes no exact-once promise.
const DefaultCheckInterval = 30 * time.Second

var ErrEntryNotFound = errors.New("schedule entry not found")

type Stats struct {
	TotalEntries  int     `json:"total_entries"`
	ActiveEntries int     `json:"active_entries"`
	IsRunning     bool    `json:"is_running"`
	CheckInterval float64 `json:"check_interval_seconds"`
}

type Scheduler struct {
	mu            sync.Mutex
	entries       map[string]*models.ScheduleEntry
	running       bool
	cancel        context.CancelFunc
	done          chan struct{}
	checkInterval time.Duration
	emitter       protocol.EventEmitter
	logger        *slog.Logger
	now           func() time.Time
}

type Option func(*Scheduler)

// WithCheckInterval overrides the poll interval.
func WithCheckInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		s.checkInterval = interval
	}
}

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(emitter protocol.EventEmitter, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		entries:       make(map[string]*models.ScheduleEntry),
		checkInterval: DefaultCheckInterval,
		emitter:       emitter,
		logger:        logger.With("module", "scheduler"),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Add validates the entry's cron expression and stores the entry with its
// next run precomputed. A syntactically invalid expression rejects the call
// and leaves the entry set unchanged.
func (s *Scheduler) Add(entry *models.ScheduleEntry) error {
	expr, err := cronexpr.Parse(entry.Cron)
	if err != nil {
		return fmt.Errorf("invalid cron expression for entry %s: %w", entry.ID, err)
	}

	next := expr.Next(s.now())
	entry.NextRun = &next

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.ID] = entry
	s.logger.Info("schedule entry added", "id", entry.ID, "cron", entry.Cron, "next_run", next)

	return nil
}

func (s *Scheduler) Remove(entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, entryID)
}

func (s *Scheduler) Get(entryID string) (*models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	copied := *entry

	return &copied, nil
}

func (s *Scheduler) ListAll() []*models.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*models.ScheduleEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		copied := *entry
		entries = append(entries, &copied)
	}

	return entries
}

// Start launches the background check loop. Calling Start while running is
// a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.runLoop(ctx)

	s.logger.Info("scheduler started", "check_interval", s.checkInterval)
}

// Stop cancels the loop and waits for it to drain. Safe to call when not
// running.
func (s *Scheduler) Stop() {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()

		return
	}

	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		s.checkEntries()

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) checkEntries() {
	now := s.now()

	s.mu.Lock()
	snapshot := make([]*models.ScheduleEntry, 0, len(s.entries))

	for _, entry := range s.entries {
		snapshot = append(snapshot, entry)
	}
	s.mu.Unlock()

	for _, entry := range snapshot {
		if !entry.IsActive {
			continue
		}

		if err := s.checkEntry(entry, now); err != nil {
			// One bad entry must not take scheduling down.
			s.logger.Error("schedule entry check failed", "id", entry.ID, "error", err)
		}
	}
}

func (s *Scheduler) checkEntry(entry *models.ScheduleEntry, now time.Time) error {
	// The stored expression string is re-parsed every pass, so an entry
	// mutated by the management surface is picked up on the next check.
	expr, err := cronexpr.Parse(entry.Cron)
	if err != nil {
		return err
	}

	if !expr.Matches(now) {
		return nil
	}

	next := expr.Next(now)

	s.mu.Lock()
	entry.LastRun = &now
	entry.RunCount++
	entry.NextRun = &next
	s.mu.Unlock()

	s.emitter.Emit(events.ScheduleFired, map[string]any{
		"scheduler_id":  entry.ID,
		"automation_id": entry.AutomationID,
		"name":          entry.Name,
	})

	s.logger.Info("schedule fired", "id", entry.ID, "name", entry.Name, "run_count", entry.RunCount)

	return nil
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0

	for _, entry := range s.entries {
		if entry.IsActive {
			active++
		}
	}

	return Stats{
		TotalEntries:  len(s.entries),
		ActiveEntries: active,
		IsRunning:     s.running,
		CheckInterval: s.checkInterval.Seconds(),
	}
}

// Package eventbus provides the in-process publish/subscribe registry used
// by the scheduler and by workflow emit-event steps. Emitting resolves the
// interested handler ids; dispatching to those handlers is the host
// application's responsibility.
package eventbus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/events"
)

// Wildcard subscriptions match every emitted type.
const Wildcard = "*"

const defaultMaxHistory = 500

// Subscription registers a handler's interest in one event type.
type Subscription struct {
	HandlerID    string         `json:"handler_id"`
	Config       map[string]any `json:"config"`
	SubscribedAt time.Time      `json:"subscribed_at"`
}

// Stats summarizes the bus state.
type Stats struct {
	TotalEventTypes  int      `json:"total_event_types"`
	TotalSubscribers int      `json:"total_subscribers"`
	HistorySize      int      `json:"history_size"`
	EventTypes       []string `json:"event_types"`
}

type Bus struct {
	mu          sync.Mutex
	subscribers map[string][]Subscription
	history     []events.Event
	maxHistory  int
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]Subscription),
		maxHistory:  defaultMaxHistory,
		logger:      logger.With("module", "eventbus"),
	}
}

// Subscribe appends a subscription. Re-subscribing the same
// (eventType, handlerID) pair creates a second entry; there is no
// de-duplication.
func (b *Bus) Subscribe(eventType, handlerID string, config map[string]any) {
	if config == nil {
		config = map[string]any{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], Subscription{
		HandlerID:    handlerID,
		Config:       config,
		SubscribedAt: time.Now(),
	})

	b.logger.Debug("handler subscribed", "event_type", eventType, "handler_id", handlerID)
}

// Unsubscribe removes every subscription matching both fields exactly.
func (b *Bus) Unsubscribe(eventType, handlerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[eventType]
	kept := subs[:0]

	for _, sub := range subs {
		if sub.HandlerID != handlerID {
			kept = append(kept, sub)
		}
	}

	b.subscribers[eventType] = kept
}

// Emit records the event in the bounded history and returns the handler ids
// interested in it: exact-type subscribers first, then wildcard subscribers.
// A handler subscribed both ways appears twice. Handlers are never invoked
// here.
func (b *Bus) Emit(eventType events.EventType, payload map[string]any) []string {
	event := events.New(eventType, payload)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.history = append(b.history, event)
	if len(b.history) > b.maxHistory {
		b.history = b.history[len(b.history)-b.maxHistory:]
	}

	triggered := make([]string, 0)

	for _, sub := range b.subscribers[string(eventType)] {
		triggered = append(triggered, sub.HandlerID)
	}

	for _, sub := range b.subscribers[Wildcard] {
		triggered = append(triggered, sub.HandlerID)
	}

	b.logger.Debug("event emitted",
		"event_type", eventType,
		"event_id", event.ID,
		"handlers", len(triggered),
	)

	return triggered
}

// Subscribers returns the subscription registry, optionally narrowed to one
// event type. The returned map is a copy.
func (b *Bus) Subscribers(eventType string) map[string][]Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string][]Subscription)

	if eventType != "" {
		out[eventType] = append([]Subscription(nil), b.subscribers[eventType]...)

		return out
	}

	for t, subs := range b.subscribers {
		out[t] = append([]Subscription(nil), subs...)
	}

	return out
}

// History returns the most recent limit events, optionally filtered by type.
func (b *Bus) History(limit int, eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	matched := b.history

	if eventType != "" {
		matched = make([]events.Event, 0)

		for _, event := range b.history {
			if string(event.Type) == eventType {
				matched = append(matched, event)
			}
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	return append([]events.Event(nil), matched...)
}

func (b *Bus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := make([]string, 0, len(b.subscribers))
	total := 0

	for t, subs := range b.subscribers {
		types = append(types, t)
		total += len(subs)
	}

	return Stats{
		TotalEventTypes:  len(b.subscribers),
		TotalSubscribers: total,
		HistorySize:      len(b.history),
		EventTypes:       types,
	}
}

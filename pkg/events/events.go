// Package events defines the event types and records flowing through the
// automation engine's event bus.
package events

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type EventType string

const (
	RecordCreated    EventType = "record.created"
	RecordUpdated    EventType = "record.updated"
	RecordDeleted    EventType = "record.deleted"
	ScheduleFired    EventType = "schedule.fired"
	WebhookReceived  EventType = "webhook.received"
	ThresholdReached EventType = "threshold.reached"
	AgentCompleted   EventType = "agent.completed"
	ManualTrigger    EventType = "manual.trigger"
	SystemEvent      EventType = "system.event"
)

// KnownTypes lists the event types the engine itself emits or understands.
// Emitting a type outside this list is allowed; the bus treats types as
// opaque strings.
func KnownTypes() []EventType {
	return []EventType{
		RecordCreated,
		RecordUpdated,
		RecordDeleted,
		ScheduleFired,
		WebhookReceived,
		ThresholdReached,
		AgentCompleted,
		ManualTrigger,
		SystemEvent,
	}
}

// Event is an immutable record of something that happened.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// New builds an event stamped with the current time. The ID is a short
// fingerprint of the type and the emission instant.
func New(eventType EventType, payload map[string]any) Event {
	now := time.Now()

	if payload == nil {
		payload = map[string]any{}
	}

	return Event{
		ID:        Fingerprint(string(eventType), now),
		Type:      eventType,
		Payload:   payload,
		Timestamp: now,
	}
}

// Fingerprint derives a 16-character hex id from a name and an instant.
func Fingerprint(name string, at time.Time) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d", name, at.UnixNano()))

	return hex.EncodeToString(sum[:])[:16]
}

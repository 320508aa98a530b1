package events_test

import (
	"testing"
	"time"

	"github.com/arcadiahq/automation-engine/pkg/events"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Parallel()

	event := events.New(events.ScheduleFired, map[string]any{"scheduler_id": "s1"})

	assert.Equal(t, events.ScheduleFired, event.Type)
	assert.Equal(t, "s1", event.Payload["scheduler_id"])
	assert.Len(t, event.ID, 16)
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
}

func TestNewNilPayload(t *testing.T) {
	t.Parallel()

	event := events.New(events.ManualTrigger, nil)

	assert.NotNil(t, event.Payload)
	assert.Empty(t, event.Payload)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, events.Fingerprint("a", at), events.Fingerprint("a", at))
	assert.NotEqual(t, events.Fingerprint("a", at), events.Fingerprint("b", at))
	assert.NotEqual(t, events.Fingerprint("a", at), events.Fingerprint("a", at.Add(time.Nanosecond)))
}

func TestKnownTypes(t *testing.T) {
	t.Parallel()

	types := events.KnownTypes()

	assert.Contains(t, types, events.ScheduleFired)
	assert.Contains(t, types, events.ManualTrigger)
	assert.Len(t, types, 9)
}

package eventbus_test

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/arcadiahq/automation-engine/pkg/eventbus"
	"github.com/arcadiahq/automation-engine/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *eventbus.Bus {
	t.Helper()

	return eventbus.NewBus(slog.Default())
}

func TestEmitResolvesHandlers(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	bus.Subscribe("record.created", "handler-a", nil)
	bus.Subscribe("record.created", "handler-b", map[string]any{"priority": 1})
	bus.Subscribe("record.updated", "handler-c", nil)

	triggered := bus.Emit(events.RecordCreated, map[string]any{"table": "invoices"})

	assert.Equal(t, []string{"handler-a", "handler-b"}, triggered)
}

func TestEmitWithoutSubscribersReturnsEmptyList(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)

	triggered := bus.Emit("x", nil)

	assert.NotNil(t, triggered)
	assert.Empty(t, triggered)
}

func TestEmitWildcardAppendsAfterExact(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	bus.Subscribe("record.created", "exact", nil)
	bus.Subscribe(eventbus.Wildcard, "audit", nil)

	triggered := bus.Emit(events.RecordCreated, nil)

	assert.Equal(t, []string{"exact", "audit"}, triggered)
}

func TestEmitDoubleSubscriptionResolvesTwice(t *testing.T) {
	t.Parallel()

	// A handler subscribed both exactly and via wildcard is resolved twice.
	// The dispatcher owns de-duplication if it wants it.
	bus := newTestBus(t)
	bus.Subscribe("record.created", "handler-a", nil)
	bus.Subscribe(eventbus.Wildcard, "handler-a", nil)

	triggered := bus.Emit(events.RecordCreated, nil)

	assert.Equal(t, []string{"handler-a", "handler-a"}, triggered)
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)

	for i := range 501 {
		bus.Emit(events.SystemEvent, map[string]any{"seq": i})
	}

	history := bus.History(0, "")
	require.Len(t, history, 500)

	// The oldest event (seq 0) was evicted first.
	assert.Equal(t, 1, history[0].Payload["seq"])
	assert.Equal(t, 500, history[len(history)-1].Payload["seq"])
	assert.Equal(t, 500, bus.Stats().HistorySize)
}

func TestHistoryLimitAndFilter(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	bus.Emit(events.RecordCreated, map[string]any{"n": 1})
	bus.Emit(events.RecordUpdated, map[string]any{"n": 2})
	bus.Emit(events.RecordCreated, map[string]any{"n": 3})
	bus.Emit(events.RecordCreated, map[string]any{"n": 4})

	created := bus.History(2, "record.created")
	require.Len(t, created, 2)
	assert.Equal(t, 3, created[0].Payload["n"])
	assert.Equal(t, 4, created[1].Payload["n"])

	all := bus.History(10, "")
	assert.Len(t, all, 4)
}

func TestUnsubscribeRemovesAllMatches(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	bus.Subscribe("record.created", "dup", nil)
	bus.Subscribe("record.created", "dup", nil)
	bus.Subscribe("record.created", "other", nil)

	subs := bus.Subscribers("record.created")
	require.Len(t, subs["record.created"], 3)

	bus.Unsubscribe("record.created", "dup")

	subs = bus.Subscribers("record.created")
	require.Len(t, subs["record.created"], 1)
	assert.Equal(t, "other", subs["record.created"][0].HandlerID)
}

func TestUnsubscribeIsTypeScoped(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	bus.Subscribe("record.created", "h", nil)
	bus.Subscribe("record.deleted", "h", nil)

	bus.Unsubscribe("record.created", "h")

	assert.Empty(t, bus.Subscribers("record.created")["record.created"])
	assert.Len(t, bus.Subscribers("record.deleted")["record.deleted"], 1)
}

func TestStats(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	bus.Subscribe("record.created", "a", nil)
	bus.Subscribe("record.created", "b", nil)
	bus.Subscribe("schedule.fired", "c", nil)
	bus.Emit(events.RecordCreated, nil)

	stats := bus.Stats()

	assert.Equal(t, 2, stats.TotalEventTypes)
	assert.Equal(t, 3, stats.TotalSubscribers)
	assert.Equal(t, 1, stats.HistorySize)
	assert.ElementsMatch(t, []string{"record.created", "schedule.fired"}, stats.EventTypes)
}

func TestConcurrentEmitAndSubscribe(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)
	done := make(chan struct{})

	for i := range 8 {
		go func(n int) {
			defer func() { done <- struct{}{} }()

			for j := range 50 {
				bus.Subscribe("record.created", fmt.Sprintf("h-%d-%d", n, j), nil)
				bus.Emit(events.RecordCreated, map[string]any{"n": j})
				bus.History(10, "")
			}
		}(i)
	}

	for range 8 {
		<-done
	}

	stats := bus.Stats()
	assert.Equal(t, 400, stats.TotalSubscribers)
	assert.Equal(t, 400, stats.HistorySize)
}

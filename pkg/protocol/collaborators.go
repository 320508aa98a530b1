package protocol

import (
	"context"

	"github.com/arcadiahq/automation-engine/pkg/events"
)

// QueryExecutor runs read-only SQL on behalf of query steps. Implementations
// must enforce a statement timeout and cap the returned row count.
type QueryExecutor interface {
	ExecuteReadOnlyQuery(ctx context.Context, sql string) ([]map[string]any, error)
}

// HTTPRequester performs outbound HTTP calls on behalf of http steps.
// Implementations must enforce a request timeout and truncate the returned
// body to a fixed size.
type HTTPRequester interface {
	Do(ctx context.Context, method, url string, body any) (status int, responseBody string, err error)
}

// EventEmitter is the slice of the event bus that emit-event actions and the
// scheduler need: emission with handler resolution, nothing else.
type EventEmitter interface {
	Emit(eventType events.EventType, payload map[string]any) []string
}

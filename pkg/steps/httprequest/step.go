// Package httprequest provides the http step handler. The outbound call
// goes through the host-supplied HTTP collaborator, which owns the request
// timeout and response truncation.
package httprequest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arcadiahq/automation-engine/pkg/protocol"
)

type Step struct {
	Method    string
	URL       string
	Body      any
	requester protocol.HTTPRequester
}

func NewStep(config map[string]any, requester protocol.HTTPRequester) (*Step, error) {
	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodGet
	}

	url, _ := config["url"].(string)

	return &Step{
		Method:    strings.ToUpper(method),
		URL:       url,
		Body:      config["body"],
		requester: requester,
	}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	if s.URL == "" {
		return map[string]any{"error": "url not configured"}, nil
	}

	logger.Debug("http step request", "method", s.Method, "url", s.URL)

	status, body, err := s.requester.Do(ctx, s.Method, s.URL, s.Body)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("http request failed: %v", err)}, nil
	}

	return map[string]any{
		"status": status,
		"output": map[string]any{"http_response": body},
	}, nil
}

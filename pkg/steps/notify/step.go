// Package notify provides the notify step handler. It only records the
// notification intent; actual delivery belongs to an external dispatcher.
package notify

import (
	"context"
	"log/slog"
)

const defaultChannel = "system"

type Step struct {
	Message string
	Channel string
}

func NewStep(config map[string]any) (*Step, error) {
	message, _ := config["message"].(string)

	channel, _ := config["channel"].(string)
	if channel == "" {
		channel = defaultChannel
	}

	return &Step{Message: message, Channel: channel}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	logger.Info("notification recorded", "channel", s.Channel, "message", s.Message)

	return map[string]any{
		"notified": true,
		"message":  s.Message,
		"channel":  s.Channel,
	}, nil
}

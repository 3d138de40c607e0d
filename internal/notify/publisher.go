// Package notify delivers toast notifications: over AMQP when a broker is
// configured, to the log otherwise.
package notify

import (
	"context"

	applog "expensedash/internal/log"
)

// Publisher sends notifications somewhere a user will see them.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

// LogPublisher writes notifications to the log. Used when no broker is set.
type LogPublisher struct {
	logger *applog.Logger
}

func NewLogPublisher(logger *applog.Logger) *LogPublisher {
	if logger == nil {
		logger = applog.Discard()
	}
	return &LogPublisher{logger: logger.WithComponent(applog.ComponentAMQP)}
}

func (p *LogPublisher) Publish(ctx context.Context, n Notification) error {
	p.logger.InfoContext(ctx, "Notification",
		"id", n.ID,
		"type", n.Type,
		"title", n.Title,
		"message", n.Message)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

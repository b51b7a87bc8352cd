package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/joshwanee/hcdc-partnership/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubPublisher{logger: logger}
}

// Publish logs the event at info level.
func (p *StubPublisher) Publish(_ context.Context, event port.Event) error {
	p.logger.Info("stub event published",
		zap.String("event_type", event.Type),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

// Close is a no-op for the stub publisher.
func (p *StubPublisher) Close() error {
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)

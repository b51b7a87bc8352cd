package port

import "context"

// Event is a domain event published to the audit stream.
type Event struct {
	Type    string
	ActorID string
	Payload map[string]any
}

// EventPublisher emits domain events for downstream audit consumers.
// Implementations must not block request handling on broker availability.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

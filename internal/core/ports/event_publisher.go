package ports

import "context"

// EventPublisher pushes domain events onto the platform event bus.
// Publishing is fire-and-forget from the orchestrator's perspective:
// implementations must never block a request on bus availability, and a
// failed publish must not fail the business operation that produced it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]any)
}

// LoginLimiter throttles authentication attempts per account key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

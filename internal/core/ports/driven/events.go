package driven

import "github.com/custodia-labs/semantica/internal/core/domain"

// EventPublisher dispatches domain events after aggregates have been
// persisted. Delivery is fire-and-forget: the core relies on nothing beyond
// best-effort in-process dispatch.
type EventPublisher interface {
	// PublishAll dispatches the events in order.
	PublishAll(events []domain.DomainEvent)
}

// Package events provides an in-process domain event publisher.
package events

import (
	"sync"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driven"
	"github.com/custodia-labs/semantica/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

// Handler processes a single domain event.
type Handler func(event domain.DomainEvent)

// Publisher dispatches domain events to in-process subscribers. Dispatch is
// synchronous and best-effort: a handler that panics takes the process down,
// so handlers must recover internally if they run untrusted logic.
type Publisher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewPublisher creates a publisher with no subscribers.
func NewPublisher() *Publisher {
	return &Publisher{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for events with the given name.
func (p *Publisher) Subscribe(eventName string, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[eventName] = append(p.handlers[eventName], handler)
}

// PublishAll dispatches the events in order.
func (p *Publisher) PublishAll(events []domain.DomainEvent) {
	for _, event := range events {
		logger.Debug("event: %s", event.EventName())

		p.mu.RLock()
		handlers := p.handlers[event.EventName()]
		p.mu.RUnlock()

		for _, handler := range handlers {
			handler(event)
		}
	}
}

package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface implemented by all domain events
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	TenantID() uuid.UUID
	OccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID         uuid.UUID
	Type       string
	Aggregate  uuid.UUID
	Tenant     uuid.UUID
	OccurredOn time.Time
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggregateID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Aggregate:  aggregateID,
		Tenant:     tenantID,
		OccurredOn: time.Now(),
	}
}

// EventID returns the unique event ID
func (e BaseDomainEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the event type name
func (e BaseDomainEvent) EventType() string { return e.Type }

// AggregateID returns the ID of the aggregate that emitted the event
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }

// TenantID returns the tenant scope of the event
func (e BaseDomainEvent) TenantID() uuid.UUID { return e.Tenant }

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time { return e.OccurredOn }

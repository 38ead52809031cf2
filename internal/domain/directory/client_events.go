package directory

import (
	"github.com/fieldops/backend/internal/domain/shared"
)

// Event type names for the directory context
const (
	EventTypeClientCreated       = "directory.client.created"
	EventTypeClientUpdated       = "directory.client.updated"
	EventTypeClientStatusChanged = "directory.client.status_changed"
	EventTypeContactCreated      = "directory.contact.created"
)

// ClientCreatedEvent is emitted when a client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Code string
	Name string
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) ClientCreatedEvent {
	return ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, c.ID, c.TenantID),
		Code:            c.Code,
		Name:            c.Name,
	}
}

// ClientUpdatedEvent is emitted when a client's details change
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string
}

// NewClientUpdatedEvent creates a new ClientUpdatedEvent
func NewClientUpdatedEvent(c *Client) ClientUpdatedEvent {
	return ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientUpdated, c.ID, c.TenantID),
		Name:            c.Name,
	}
}

// ClientStatusChangedEvent is emitted when a client's status changes
type ClientStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ClientStatus
	NewStatus ClientStatus
}

// NewClientStatusChangedEvent creates a new ClientStatusChangedEvent
func NewClientStatusChangedEvent(c *Client, oldStatus, newStatus ClientStatus) ClientStatusChangedEvent {
	return ClientStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientStatusChanged, c.ID, c.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ContactCreatedEvent is emitted when a contact is added to a client
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string
	Email string
}

// NewContactCreatedEvent creates a new ContactCreatedEvent
func NewContactCreatedEvent(ct *Contact) ContactCreatedEvent {
	return ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactCreated, ct.ID, ct.TenantID),
		Name:            ct.Name,
		Email:           ct.Email,
	}
}

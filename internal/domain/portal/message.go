package portal

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageSender distinguishes who wrote a portal message
type MessageSender string

const (
	MessageSenderContact MessageSender = "contact"
	MessageSenderStaff   MessageSender = "staff"
)

// Message is a thread entry exchanged between a portal contact and staff
type Message struct {
	shared.BaseEntity
	TenantID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	ClientID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	ContactID *uuid.UUID    `gorm:"type:uuid;index"`
	StaffID   *uuid.UUID    `gorm:"type:uuid"`
	Sender    MessageSender `gorm:"type:varchar(10);not null"`
	Body      string        `gorm:"type:text;not null"`
	ReadAt    *time.Time
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "portal_messages"
}

// NewContactMessage creates a message written by a portal contact
func NewContactMessage(tenantID, clientID, contactID uuid.UUID, body string) (*Message, error) {
	if err := validateMessageBody(body); err != nil {
		return nil, err
	}

	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ClientID:   clientID,
		ContactID:  &contactID,
		Sender:     MessageSenderContact,
		Body:       body,
	}, nil
}

// NewStaffMessage creates a message written by a staff user
func NewStaffMessage(tenantID, clientID, staffID uuid.UUID, body string) (*Message, error) {
	if err := validateMessageBody(body); err != nil {
		return nil, err
	}

	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ClientID:   clientID,
		StaffID:    &staffID,
		Sender:     MessageSenderStaff,
		Body:       body,
	}, nil
}

// MarkRead records when the recipient read the message
func (m *Message) MarkRead(now time.Time) {
	if m.ReadAt == nil {
		m.ReadAt = &now
	}
}

func validateMessageBody(body string) error {
	if body == "" {
		return shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}
	if len(body) > 10000 {
		return shared.NewDomainError("INVALID_BODY", "Message body cannot exceed 10000 characters")
	}
	return nil
}

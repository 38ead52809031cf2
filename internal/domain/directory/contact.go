package directory

import (
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact represents a person at a client who can be reached or granted
// portal access.
type Contact struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	ClientID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(200);index"`
	Phone        string    `gorm:"type:varchar(50)"`
	Role         string    `gorm:"type:varchar(100)"`
	PortalAccess bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a new contact for a client
func NewContact(tenantID, clientID uuid.UUID, name, email string) (*Contact, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot exceed 200 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	contact := &Contact{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Name:                name,
		Email:               strings.ToLower(email),
	}

	contact.AddDomainEvent(NewContactCreatedEvent(contact))

	return contact, nil
}

// Update updates the contact's details
func (ct *Contact) Update(name, email, phone, role string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if len(role) > 100 {
		return shared.NewDomainError("INVALID_ROLE", "Role cannot exceed 100 characters")
	}

	ct.Name = name
	ct.Email = strings.ToLower(email)
	ct.Phone = phone
	ct.Role = role
	ct.UpdatedAt = time.Now()
	ct.IncrementVersion()

	return nil
}

// GrantPortalAccess allows the contact to sign in to the client portal.
// A contact without an email address cannot receive portal invitations.
func (ct *Contact) GrantPortalAccess() error {
	if ct.Email == "" {
		return shared.NewDomainError("MISSING_EMAIL", "Contact needs an email address for portal access")
	}

	ct.PortalAccess = true
	ct.UpdatedAt = time.Now()
	ct.IncrementVersion()

	return nil
}

// RevokePortalAccess revokes the contact's portal access
func (ct *Contact) RevokePortalAccess() {
	ct.PortalAccess = false
	ct.UpdatedAt = time.Now()
	ct.IncrementVersion()
}

// HasPortalAccess returns true if the contact may use the client portal
func (ct *Contact) HasPortalAccess() bool {
	return ct.PortalAccess
}

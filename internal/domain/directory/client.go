package directory

import (
	"regexp"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusArchived ClientStatus = "archived"
)

// ClientType represents the type of client
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual"
	ClientTypeCompany    ClientType = "company"
)

// Client represents a customer account of the field-service business.
// It is the aggregate root for client-related operations.
type Client struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_client_tenant_code,priority:2"`
	Name        string       `gorm:"type:varchar(200);not null"`
	Type        ClientType   `gorm:"type:varchar(20);not null;default:'individual'"`
	Status      ClientStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Email       string       `gorm:"type:varchar(200);index"`
	Phone       string       `gorm:"type:varchar(50);index"`
	Address     string       `gorm:"type:text"`
	City        string       `gorm:"type:varchar(100)"`
	State       string       `gorm:"type:varchar(100)"`
	PostalCode  string       `gorm:"type:varchar(20)"`
	Country     string       `gorm:"type:varchar(100)"`
	TaxID       string       `gorm:"type:varchar(50)"`
	Notes       string       `gorm:"type:text"`
	LegacyRef   string       `gorm:"type:varchar(100);index"` // ID in the legacy object store, set by import
	Attributes  string       `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with required fields
func NewClient(tenantID uuid.UUID, code, name string, clientType ClientType) (*Client, error) {
	if err := validateClientCode(code); err != nil {
		return nil, err
	}
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateClientType(clientType); err != nil {
		return nil, err
	}

	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                clientType,
		Status:              ClientStatusActive,
		Attributes:          "{}",
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's basic information
func (c *Client) Update(name string) error {
	if err := validateClientName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

// SetContact sets the client's primary contact information
func (c *Client) SetContact(email, phone string) error {
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

	c.Email = strings.ToLower(email)
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the client's billing address
func (c *Client) SetAddress(address, city, state, postalCode, country string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(city) > 100 || len(state) > 100 || len(country) > 100 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address field cannot exceed 100 characters")
	}
	if len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot exceed 20 characters")
	}

	c.Address = address
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.Country = country
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetTaxID sets the client's tax identification number
func (c *Client) SetTaxID(taxID string) error {
	if len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	c.TaxID = taxID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetLegacyRef links the client to its record in the legacy object store
func (c *Client) SetLegacyRef(ref string) {
	c.LegacyRef = ref
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate activates the client
func (c *Client) Activate() error {
	if c.Status == ClientStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}

	oldStatus := c.Status
	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, ClientStatusActive))

	return nil
}

// Deactivate deactivates the client
func (c *Client) Deactivate() error {
	if c.Status == ClientStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Client is already inactive")
	}

	oldStatus := c.Status
	c.Status = ClientStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, ClientStatusInactive))

	return nil
}

// Archive archives the client. Archived clients are hidden from default
// listings but keep their billing history.
func (c *Client) Archive() error {
	if c.Status == ClientStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Client is already archived")
	}

	oldStatus := c.Status
	c.Status = ClientStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, ClientStatusArchived))

	return nil
}

// Restore restores an archived client to active
func (c *Client) Restore() error {
	if c.Status != ClientStatusArchived {
		return shared.ErrInvalidState
	}

	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, ClientStatusArchived, ClientStatusActive))

	return nil
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// IsArchived returns true if the client is archived
func (c *Client) IsArchived() bool {
	return c.Status == ClientStatusArchived
}

// IsCompany returns true if the client is a company
func (c *Client) IsCompany() bool {
	return c.Type == ClientTypeCompany
}

// Validation functions

func validateClientCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Client code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Client code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Client code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func validateClientType(t ClientType) error {
	switch t {
	case ClientTypeIndividual, ClientTypeCompany:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Client type must be 'individual' or 'company'")
	}
}

var (
	phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

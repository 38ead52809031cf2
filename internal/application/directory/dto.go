package directory

import (
	"time"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/google/uuid"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Code       string `json:"code" binding:"required,min=1,max=50"`
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Type       string `json:"type" binding:"required,oneof=individual company"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Phone      string `json:"phone" binding:"max=50"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
	TaxID      string `json:"tax_id" binding:"max=50"`
	Notes      string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Address    *string `json:"address" binding:"omitempty,max=500"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	State      *string `json:"state" binding:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" binding:"omitempty,max=20"`
	Country    *string `json:"country" binding:"omitempty,max=100"`
	TaxID      *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes      *string `json:"notes"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	TaxID      string    `json:"tax_id"`
	Notes      string    `json:"notes"`
	LegacyRef  string    `json:"legacy_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int       `json:"version"`
}

// ClientListResponse represents a list item for clients
type ClientListResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive archived"`
	Type     string `form:"type" binding:"omitempty,oneof=individual company"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *directory.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		TenantID:   c.TenantID,
		Code:       c.Code,
		Name:       c.Name,
		Type:       string(c.Type),
		Status:     string(c.Status),
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		TaxID:      c.TaxID,
		Notes:      c.Notes,
		LegacyRef:  c.LegacyRef,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}

// ToClientListResponses converts domain Clients to list responses
func ToClientListResponses(clients []directory.Client) []ClientListResponse {
	responses := make([]ClientListResponse, len(clients))
	for i, c := range clients {
		responses[i] = ClientListResponse{
			ID:        c.ID,
			Code:      c.Code,
			Name:      c.Name,
			Type:      string(c.Type),
			Status:    string(c.Status),
			Email:     c.Email,
			Phone:     c.Phone,
			City:      c.City,
			CreatedAt: c.CreatedAt,
		}
	}
	return responses
}

// =============================================================================
// Contact DTOs
// =============================================================================

// CreateContactRequest represents a request to create a contact
type CreateContactRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	Role         string `json:"role" binding:"max=100"`
	PortalAccess bool   `json:"portal_access"`
}

// UpdateContactRequest represents a request to update a contact
type UpdateContactRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	Role  *string `json:"role" binding:"omitempty,max=100"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID           uuid.UUID `json:"id"`
	ClientID     uuid.UUID `json:"client_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	PortalAccess bool      `json:"portal_access"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ContactListFilter represents filter options for the contact list
type ContactListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(ct *directory.Contact) ContactResponse {
	return ContactResponse{
		ID:           ct.ID,
		ClientID:     ct.ClientID,
		Name:         ct.Name,
		Email:        ct.Email,
		Phone:        ct.Phone,
		Role:         ct.Role,
		PortalAccess: ct.PortalAccess,
		CreatedAt:    ct.CreatedAt,
		UpdatedAt:    ct.UpdatedAt,
	}
}

// ToContactResponses converts domain Contacts to responses
func ToContactResponses(contacts []directory.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}

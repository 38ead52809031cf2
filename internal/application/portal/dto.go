package portal

import (
	"time"

	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/google/uuid"
)

// LoginRequest represents a portal login attempt by a client contact
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginResponse carries the minted session. The token is set as a cookie
// by the HTTP layer and echoed here for non-browser clients.
type LoginResponse struct {
	Token     string    `json:"token"`
	ClientID  uuid.UUID `json:"client_id"`
	ContactID uuid.UUID `json:"contact_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PostMessageRequest represents a new portal thread entry
type PostMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=10000"`
}

// MessageResponse represents a portal message in API responses
type MessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	ClientID  uuid.UUID  `json:"client_id"`
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	StaffID   *uuid.UUID `json:"staff_id,omitempty"`
	Sender    string     `json:"sender"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MessageListFilter represents pagination options for a message thread
type MessageListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToMessageResponse converts a domain Message to a response
func ToMessageResponse(m *portal.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ClientID:  m.ClientID,
		ContactID: m.ContactID,
		StaffID:   m.StaffID,
		Sender:    string(m.Sender),
		Body:      m.Body,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

// ToMessageResponses converts domain Messages to responses
func ToMessageResponses(messages []portal.Message) []MessageResponse {
	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = ToMessageResponse(&messages[i])
	}
	return responses
}

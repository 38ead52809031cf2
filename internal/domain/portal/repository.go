package portal

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionStore defines the interface for portal session storage.
// Implementations are expected to expire sessions at their TTL.
type SessionStore interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// MessageRepository defines the interface for portal message persistence
type MessageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Message, error)
	CountUnreadForClient(ctx context.Context, tenantID, clientID uuid.UUID, sender MessageSender) (int64, error)
	Save(ctx context.Context, message *Message) error
}

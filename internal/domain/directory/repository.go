package directory

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByIDForTenant finds a client by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)

	// FindByCode finds a client by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Client, error)

	// FindByLegacyRef finds a client by its legacy object-store ID
	FindByLegacyRef(ctx context.Context, tenantID uuid.UUID, ref string) (*Client, error)

	// FindAllForTenant finds all clients for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// SaveWithLock saves a client with optimistic locking (version check)
	SaveWithLock(ctx context.Context, client *Client) error

	// Delete soft-deletes a client within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts clients for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a client with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByID finds a contact by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)

	// FindByIDForTenant finds a contact by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contact, error)

	// FindByEmail finds a contact by email within a tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Contact, error)

	// FindByClient finds all contacts for a client
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Contact, error)

	// Save creates or updates a contact
	Save(ctx context.Context, contact *Contact) error

	// DeleteForTenant soft-deletes a contact within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByClient counts contacts for a client
	CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error)
}

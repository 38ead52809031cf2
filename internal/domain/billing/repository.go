package billing

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EstimateRepository defines the interface for estimate persistence.
// Save persists the aggregate together with its line items.
type EstimateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Estimate, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Estimate, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Estimate, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Estimate, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Estimate, error)
	Save(ctx context.Context, estimate *Estimate) error
	SaveWithLock(ctx context.Context, estimate *Estimate) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	// SaveWithPayment persists the invoice and a new payment atomically,
	// so the balance and the payment row cannot diverge.
	SaveWithPayment(ctx context.Context, invoice *Invoice, payment *Payment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)
	// FindByReference finds a payment by processor reference, used to make
	// webhook delivery idempotent.
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*Payment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// SequenceRepository hands out per-tenant document numbers
type SequenceRepository interface {
	// NextNumber atomically increments and returns the next value for the
	// given tenant and document kind.
	NextNumber(ctx context.Context, tenantID uuid.UUID, kind DocumentKind) (int64, error)
}

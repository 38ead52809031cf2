package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its line items by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForTenant finds an invoice with its line items within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its document number within a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND number = ?", tenantID, strings.ToUpper(number)).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant finds all invoices for a tenant matching the filter.
// Line items are not loaded for list reads.
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := applyFilter(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID),
		filter,
		"number",
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByClient finds all invoices for a client
func (r *GormInvoiceRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := applyFilter(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).
			Where("tenant_id = ? AND client_id = ?", tenantID, clientID),
		filter,
		"number",
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdue finds outstanding invoices whose due date has passed
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := applyFilter(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).
			Where("tenant_id = ? AND due_date < ? AND status IN ?",
				tenantID, asOf, []billing.InvoiceStatus{billing.InvoiceStatusSent, billing.InvoiceStatusPartiallyPaid}),
		filter,
		"number",
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save persists the invoice and replaces its line items in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(invoice).Error; err != nil {
			return err
		}
		return r.replaceItems(tx, invoice)
	})
}

// SaveWithLock saves the invoice with optimistic locking and replaces
// its line items when the version check passes
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateWithLock(tx, invoice); err != nil {
			return err
		}
		return r.replaceItems(tx, invoice)
	})
}

// SaveWithPayment persists the invoice balance change and the payment row
// atomically. The invoice update uses the version check so a concurrent
// payment forces a retry instead of a double credit.
func (r *GormInvoiceRepository) SaveWithPayment(ctx context.Context, invoice *billing.Invoice, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateWithLock(tx, invoice); err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

func (r *GormInvoiceRepository) updateWithLock(tx *gorm.DB, invoice *billing.Invoice) error {
	// Select("*") writes zero-valued fields too (cleared notes, nulled
	// dates); Omit keeps the association out of the update
	result := tx.Model(invoice).
		Select("*").
		Omit("Items").
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(invoice)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// replaceItems rewrites the line items. A nil slice means the items were
// never loaded, so the stored lines are left untouched.
func (r *GormInvoiceRepository) replaceItems(tx *gorm.DB, invoice *billing.Invoice) error {
	if invoice.Items == nil {
		return nil
	}
	if err := tx.Where("document_id = ? AND document_type = ?", invoice.ID, "invoice").
		Delete(&billing.LineItem{}).Error; err != nil {
		return err
	}
	for i := range invoice.Items {
		invoice.Items[i].DocumentID = invoice.ID
		invoice.Items[i].DocumentType = "invoice"
		if err := tx.Create(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant soft-deletes an invoice within a tenant
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Invoice{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts invoices for a tenant matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID),
		filter,
		"number",
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEstimateRepository implements billing.EstimateRepository using GORM
type GormEstimateRepository struct {
	db *gorm.DB
}

// NewGormEstimateRepository creates a new GormEstimateRepository
func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

// FindByID finds an estimate with its line items by ID
func (r *GormEstimateRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Estimate, error) {
	var estimate billing.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&estimate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

// FindByIDForTenant finds an estimate with its line items within a tenant
func (r *GormEstimateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Estimate, error) {
	var estimate billing.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&estimate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

// FindByNumber finds an estimate by its document number within a tenant
func (r *GormEstimateRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Estimate, error) {
	var estimate billing.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND number = ?", tenantID, strings.ToUpper(number)).
		First(&estimate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

// FindAllForTenant finds all estimates for a tenant matching the filter.
// Line items are not loaded for list reads.
func (r *GormEstimateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	var estimates []billing.Estimate
	query := applyFilter(
		r.db.WithContext(ctx).Model(&billing.Estimate{}).Where("tenant_id = ?", tenantID),
		filter,
		"number",
	)
	if err := query.Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}

// FindByClient finds all estimates for a client
func (r *GormEstimateRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	var estimates []billing.Estimate
	query := applyFilter(
		r.db.WithContext(ctx).Model(&billing.Estimate{}).
			Where("tenant_id = ? AND client_id = ?", tenantID, clientID),
		filter,
		"number",
	)
	if err := query.Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}

// Save persists the estimate and replaces its line items in one transaction
func (r *GormEstimateRepository) Save(ctx context.Context, estimate *billing.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(estimate).Error; err != nil {
			return err
		}
		return r.replaceItems(tx, estimate)
	})
}

// SaveWithLock saves the estimate with optimistic locking and replaces
// its line items when the version check passes
func (r *GormEstimateRepository) SaveWithLock(ctx context.Context, estimate *billing.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*") writes zero-valued fields too (cleared notes,
		// nulled dates); Omit keeps the association out of the update
		result := tx.Model(estimate).
			Select("*").
			Omit("Items").
			Where("id = ? AND version = ?", estimate.ID, estimate.Version-1).
			Updates(estimate)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceItems(tx, estimate)
	})
}

// replaceItems rewrites the line items. A nil slice means the items were
// never loaded, so the stored lines are left untouched.
func (r *GormEstimateRepository) replaceItems(tx *gorm.DB, estimate *billing.Estimate) error {
	if estimate.Items == nil {
		return nil
	}
	if err := tx.Where("document_id = ? AND document_type = ?", estimate.ID, "estimate").
		Delete(&billing.LineItem{}).Error; err != nil {
		return err
	}
	for i := range estimate.Items {
		estimate.Items[i].DocumentID = estimate.ID
		estimate.Items[i].DocumentType = "estimate"
		if err := tx.Create(&estimate.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant soft-deletes an estimate within a tenant
func (r *GormEstimateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Estimate{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts estimates for a tenant matching the filter
func (r *GormEstimateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&billing.Estimate{}).Where("tenant_id = ?", tenantID),
		filter,
		"number",
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.EstimateRepository = (*GormEstimateRepository)(nil)

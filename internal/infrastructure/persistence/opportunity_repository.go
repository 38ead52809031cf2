package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOpportunityRepository implements pipeline.OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// FindByID finds an opportunity by its ID
func (r *GormOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Opportunity, error) {
	var opportunity pipeline.Opportunity
	if err := r.db.WithContext(ctx).First(&opportunity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &opportunity, nil
}

// FindByIDForTenant finds an opportunity by ID within a tenant
func (r *GormOpportunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pipeline.Opportunity, error) {
	var opportunity pipeline.Opportunity
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&opportunity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &opportunity, nil
}

// FindAllForTenant finds all opportunities for a tenant matching the filter
func (r *GormOpportunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pipeline.Opportunity, error) {
	var opportunities []pipeline.Opportunity
	query := applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.Opportunity{}).Where("tenant_id = ?", tenantID),
		filter,
		"title",
	)
	if err := query.Find(&opportunities).Error; err != nil {
		return nil, err
	}
	return opportunities, nil
}

// FindByStage finds all opportunities in a stage
func (r *GormOpportunityRepository) FindByStage(ctx context.Context, tenantID uuid.UUID, stage pipeline.Stage, filter shared.Filter) ([]pipeline.Opportunity, error) {
	var opportunities []pipeline.Opportunity
	query := applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.Opportunity{}).
			Where("tenant_id = ? AND stage = ?", tenantID, stage),
		filter,
		"title",
	)
	if err := query.Find(&opportunities).Error; err != nil {
		return nil, err
	}
	return opportunities, nil
}

// FindByClient finds all opportunities for a client
func (r *GormOpportunityRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]pipeline.Opportunity, error) {
	var opportunities []pipeline.Opportunity
	query := applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.Opportunity{}).
			Where("tenant_id = ? AND client_id = ?", tenantID, clientID),
		filter,
		"title",
	)
	if err := query.Find(&opportunities).Error; err != nil {
		return nil, err
	}
	return opportunities, nil
}

// Save creates or updates an opportunity
func (r *GormOpportunityRepository) Save(ctx context.Context, opportunity *pipeline.Opportunity) error {
	return r.db.WithContext(ctx).Save(opportunity).Error
}

// SaveWithLock saves an opportunity with optimistic locking on the version
// column. Select("*") forces zero-valued fields through, so cleared
// values persist instead of being skipped by the struct update.
func (r *GormOpportunityRepository) SaveWithLock(ctx context.Context, opportunity *pipeline.Opportunity) error {
	result := r.db.WithContext(ctx).
		Model(opportunity).
		Select("*").
		Where("id = ? AND version = ?", opportunity.ID, opportunity.Version-1).
		Updates(opportunity)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SaveWithHistory persists the stage change and its history entry in one
// transaction. The version check on the opportunity keeps two concurrent
// stage moves from both succeeding.
func (r *GormOpportunityRepository) SaveWithHistory(ctx context.Context, opportunity *pipeline.Opportunity, history *pipeline.StageHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(opportunity).
			Select("*").
			Where("id = ? AND version = ?", opportunity.ID, opportunity.Version-1).
			Updates(opportunity)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return tx.Create(history).Error
	})
}

// DeleteForTenant soft-deletes an opportunity within a tenant
func (r *GormOpportunityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pipeline.Opportunity{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts opportunities for a tenant matching the filter
func (r *GormOpportunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&pipeline.Opportunity{}).Where("tenant_id = ?", tenantID),
		filter,
		"title",
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ pipeline.OpportunityRepository = (*GormOpportunityRepository)(nil)

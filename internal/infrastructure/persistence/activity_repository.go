package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityRepository implements pipeline.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds an activity by its ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Activity, error) {
	var activity pipeline.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindByIDForTenant finds an activity by ID within a tenant
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pipeline.Activity, error) {
	var activity pipeline.Activity
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindByOpportunity finds activities logged against an opportunity, newest first
func (r *GormActivityRepository) FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID, filter shared.Filter) ([]pipeline.Activity, error) {
	var activities []pipeline.Activity
	query := applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.Activity{}).
			Where("tenant_id = ? AND opportunity_id = ?", tenantID, opportunityID),
		filter,
		"summary",
	)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *pipeline.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// DeleteForTenant deletes an activity within a tenant
func (r *GormActivityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pipeline.Activity{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOpportunity counts activities logged against an opportunity
func (r *GormActivityRepository) CountByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pipeline.Activity{}).
		Where("tenant_id = ? AND opportunity_id = ?", tenantID, opportunityID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ pipeline.ActivityRepository = (*GormActivityRepository)(nil)

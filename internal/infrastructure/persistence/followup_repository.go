package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFollowUpRepository implements pipeline.FollowUpRepository using GORM
type GormFollowUpRepository struct {
	db *gorm.DB
}

// NewGormFollowUpRepository creates a new GormFollowUpRepository
func NewGormFollowUpRepository(db *gorm.DB) *GormFollowUpRepository {
	return &GormFollowUpRepository{db: db}
}

// FindByID finds a follow-up by its ID
func (r *GormFollowUpRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.FollowUp, error) {
	var followUp pipeline.FollowUp
	if err := r.db.WithContext(ctx).First(&followUp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &followUp, nil
}

// FindByIDForTenant finds a follow-up by ID within a tenant
func (r *GormFollowUpRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pipeline.FollowUp, error) {
	var followUp pipeline.FollowUp
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&followUp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &followUp, nil
}

// FindByOpportunity finds follow-ups for an opportunity, soonest first
func (r *GormFollowUpRepository) FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]pipeline.FollowUp, error) {
	var followUps []pipeline.FollowUp
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND opportunity_id = ?", tenantID, opportunityID).
		Order("due_at ASC").
		Find(&followUps).Error; err != nil {
		return nil, err
	}
	return followUps, nil
}

// FindDueBefore finds pending follow-ups due before the cutoff
func (r *GormFollowUpRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]pipeline.FollowUp, error) {
	var followUps []pipeline.FollowUp
	query := applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.FollowUp{}).
			Where("tenant_id = ? AND status = ? AND due_at < ?",
				tenantID, pipeline.FollowUpStatusPending, cutoff),
		filter,
		"note",
	)
	if err := query.Find(&followUps).Error; err != nil {
		return nil, err
	}
	return followUps, nil
}

// Save creates or updates a follow-up
func (r *GormFollowUpRepository) Save(ctx context.Context, followUp *pipeline.FollowUp) error {
	return r.db.WithContext(ctx).Save(followUp).Error
}

// DeleteForTenant deletes a follow-up within a tenant
func (r *GormFollowUpRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pipeline.FollowUp{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ pipeline.FollowUpRepository = (*GormFollowUpRepository)(nil)

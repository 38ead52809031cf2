package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/work"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScheduleEventRepository implements work.ScheduleEventRepository using GORM
type GormScheduleEventRepository struct {
	db *gorm.DB
}

// NewGormScheduleEventRepository creates a new GormScheduleEventRepository
func NewGormScheduleEventRepository(db *gorm.DB) *GormScheduleEventRepository {
	return &GormScheduleEventRepository{db: db}
}

// FindByID finds an event by its ID
func (r *GormScheduleEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.ScheduleEvent, error) {
	var event work.ScheduleEvent
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindByIDForTenant finds an event by ID within a tenant
func (r *GormScheduleEventRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*work.ScheduleEvent, error) {
	var event work.ScheduleEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindInRange finds events overlapping the [from, to) window
func (r *GormScheduleEventRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]work.ScheduleEvent, error) {
	var events []work.ScheduleEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND starts_at < ? AND ends_at > ?", tenantID, to, from).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindByAssignee finds events for a user overlapping the [from, to) window
func (r *GormScheduleEventRepository) FindByAssignee(ctx context.Context, tenantID, assigneeID uuid.UUID, from, to time.Time) ([]work.ScheduleEvent, error) {
	var events []work.ScheduleEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND assignee_id = ? AND starts_at < ? AND ends_at > ?",
			tenantID, assigneeID, to, from).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Save creates or updates an event
func (r *GormScheduleEventRepository) Save(ctx context.Context, event *work.ScheduleEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// DeleteForTenant deletes an event within a tenant
func (r *GormScheduleEventRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&work.ScheduleEvent{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ work.ScheduleEventRepository = (*GormScheduleEventRepository)(nil)

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

// GormTaskRepository implements work.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.Task, error) {
	var task work.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByIDForTenant finds a task by ID within a tenant
func (r *GormTaskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*work.Task, error) {
	var task work.Task
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindAllForTenant finds all tasks for a tenant matching the filter
func (r *GormTaskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]work.Task, error) {
	var tasks []work.Task
	query := applyFilter(
		r.db.WithContext(ctx).Model(&work.Task{}).Where("tenant_id = ?", tenantID),
		filter,
		"title",
	)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByProject finds all tasks for a project
func (r *GormTaskRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID, filter shared.Filter) ([]work.Task, error) {
	var tasks []work.Task
	query := applyFilter(
		r.db.WithContext(ctx).Model(&work.Task{}).
			Where("tenant_id = ? AND project_id = ?", tenantID, projectID),
		filter,
		"title",
	)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByAssignee finds all tasks assigned to a user
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, tenantID, assigneeID uuid.UUID, filter shared.Filter) ([]work.Task, error) {
	var tasks []work.Task
	query := applyFilter(
		r.db.WithContext(ctx).Model(&work.Task{}).
			Where("tenant_id = ? AND assignee_id = ?", tenantID, assigneeID),
		filter,
		"title",
	)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOverdue finds open tasks whose due date has passed
func (r *GormTaskRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]work.Task, error) {
	var tasks []work.Task
	query := applyFilter(
		r.db.WithContext(ctx).Model(&work.Task{}).
			Where("tenant_id = ? AND due_date < ? AND status IN ?",
				tenantID, asOf, []work.TaskStatus{work.TaskStatusTodo, work.TaskStatusInProgress}),
		filter,
		"title",
	)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, task *work.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteForTenant soft-deletes a task within a tenant
func (r *GormTaskRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&work.Task{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts tasks for a tenant matching the filter
func (r *GormTaskRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&work.Task{}).Where("tenant_id = ?", tenantID),
		filter,
		"title",
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ work.TaskRepository = (*GormTaskRepository)(nil)

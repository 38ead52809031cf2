package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/work"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProjectRepository implements work.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.Project, error) {
	var project work.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindByIDForTenant finds a project by ID within a tenant
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*work.Project, error) {
	var project work.Project
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindByNumber finds a project by its number within a tenant
func (r *GormProjectRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*work.Project, error) {
	var project work.Project
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND number = ?", tenantID, strings.ToUpper(number)).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindAllForTenant finds all projects for a tenant matching the filter
func (r *GormProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]work.Project, error) {
	var projects []work.Project
	query := applyFilter(
		r.db.WithContext(ctx).Model(&work.Project{}).Where("tenant_id = ?", tenantID),
		filter,
		"name", "number",
	)
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByClient finds all projects for a client
func (r *GormProjectRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]work.Project, error) {
	var projects []work.Project
	query := applyFilter(
		r.db.WithContext(ctx).Model(&work.Project{}).
			Where("tenant_id = ? AND client_id = ?", tenantID, clientID),
		filter,
		"name", "number",
	)
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *work.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// SaveWithLock saves a project with optimistic locking on the version
// column. Select("*") forces zero-valued fields through, so cleared
// values persist instead of being skipped by the struct update.
func (r *GormProjectRepository) SaveWithLock(ctx context.Context, project *work.Project) error {
	result := r.db.WithContext(ctx).
		Model(project).
		Select("*").
		Where("id = ? AND version = ?", project.ID, project.Version-1).
		Updates(project)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant soft-deletes a project within a tenant
func (r *GormProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&work.Project{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts projects for a tenant matching the filter
func (r *GormProjectRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&work.Project{}).Where("tenant_id = ?", tenantID),
		filter,
		"name", "number",
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if a project with the given number exists in the tenant
func (r *GormProjectRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&work.Project{}).
		Where("tenant_id = ? AND number = ?", tenantID, strings.ToUpper(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ work.ProjectRepository = (*GormProjectRepository)(nil)

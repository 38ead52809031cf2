package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements directory.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	var client directory.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByIDForTenant finds a client by ID within a tenant
func (r *GormClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*directory.Client, error) {
	var client directory.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByCode finds a client by its code within a tenant
func (r *GormClientRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*directory.Client, error) {
	var client directory.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByLegacyRef finds a client by its legacy object-store reference
func (r *GormClientRepository) FindByLegacyRef(ctx context.Context, tenantID uuid.UUID, legacyRef string) (*directory.Client, error) {
	if legacyRef == "" {
		return nil, shared.NewDomainError("INVALID_LEGACY_REF", "Legacy reference cannot be empty")
	}
	var client directory.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND legacy_ref = ?", tenantID, legacyRef).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAllForTenant finds all clients for a tenant matching the filter
func (r *GormClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]directory.Client, error) {
	var clients []directory.Client
	query := applyFilter(
		r.db.WithContext(ctx).Model(&directory.Client{}).Where("tenant_id = ?", tenantID),
		filter,
		"name", "code", "email", "phone",
	)
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *directory.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// SaveWithLock saves a client with optimistic locking on the version
// column. Select("*") forces zero-valued fields through, so cleared
// values persist instead of being skipped by the struct update.
func (r *GormClientRepository) SaveWithLock(ctx context.Context, client *directory.Client) error {
	result := r.db.WithContext(ctx).
		Model(client).
		Select("*").
		Where("id = ? AND version = ?", client.ID, client.Version-1).
		Updates(client)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant soft-deletes a client within a tenant
func (r *GormClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&directory.Client{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts clients for a tenant matching the filter
func (r *GormClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&directory.Client{}).Where("tenant_id = ?", tenantID),
		filter,
		"name", "code", "email", "phone",
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a client with the given code exists in the tenant
func (r *GormClientRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&directory.Client{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ directory.ClientRepository = (*GormClientRepository)(nil)

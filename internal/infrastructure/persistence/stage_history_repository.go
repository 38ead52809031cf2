package persistence

import (
	"context"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStageHistoryRepository implements pipeline.StageHistoryRepository using GORM
type GormStageHistoryRepository struct {
	db *gorm.DB
}

// NewGormStageHistoryRepository creates a new GormStageHistoryRepository
func NewGormStageHistoryRepository(db *gorm.DB) *GormStageHistoryRepository {
	return &GormStageHistoryRepository{db: db}
}

// FindByOpportunity returns the stage history of an opportunity, oldest first
func (r *GormStageHistoryRepository) FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]pipeline.StageHistory, error) {
	var history []pipeline.StageHistory
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND opportunity_id = ?", tenantID, opportunityID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

var _ pipeline.StageHistoryRepository = (*GormStageHistoryRepository)(nil)

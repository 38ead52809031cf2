package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements billing.SequenceRepository using GORM.
// Each tenant and document kind has one counter row that is incremented
// under a row lock, so two concurrent sends can never get the same number.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// NextNumber atomically increments and returns the next counter value for
// the tenant and document kind. The first call seeds the row and returns 1.
// Two concurrent first calls can both miss the locked read and race on the
// seed insert; the loser's transaction fails on the unique key and is
// retried once, picking up the committed row.
func (r *GormSequenceRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind) (int64, error) {
	value, seeded, err := r.nextNumber(ctx, tenantID, kind)
	if err != nil && seeded {
		value, _, err = r.nextNumber(ctx, tenantID, kind)
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *GormSequenceRepository) nextNumber(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind) (value int64, seeded bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq billing.DocumentSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seeded = true
			seq = billing.DocumentSequence{TenantID: tenantID, Kind: kind, NextValue: 2}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
			value = 1
			return nil
		}
		if err != nil {
			return err
		}
		value = seq.NextValue
		return tx.Model(&billing.DocumentSequence{}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind).
			Update("next_value", gorm.Expr("next_value + 1")).Error
	})
	return value, seeded, err
}

var _ billing.SequenceRepository = (*GormSequenceRepository)(nil)

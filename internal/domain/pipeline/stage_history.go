package pipeline

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StageHistory is an append-only record of a stage change. Rows are
// written in the same transaction as the opportunity update.
type StageHistory struct {
	shared.BaseEntity
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	OpportunityID uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromStage     Stage      `gorm:"type:varchar(20);not null"`
	ToStage       Stage      `gorm:"type:varchar(20);not null"`
	ChangedBy     *uuid.UUID `gorm:"type:uuid"`
	Reason        string     `gorm:"type:varchar(500)"`
	ChangedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StageHistory) TableName() string {
	return "opportunity_stage_history"
}

// NewStageHistory creates a stage history entry
func NewStageHistory(tenantID, opportunityID uuid.UUID, from, to Stage, changedBy *uuid.UUID, reason string) *StageHistory {
	return &StageHistory{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		OpportunityID: opportunityID,
		FromStage:     from,
		ToStage:       to,
		ChangedBy:     changedBy,
		Reason:        reason,
		ChangedAt:     time.Now(),
	}
}

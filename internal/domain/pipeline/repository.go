package pipeline

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityRepository defines the interface for opportunity persistence
type OpportunityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Opportunity, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Opportunity, error)
	FindByStage(ctx context.Context, tenantID uuid.UUID, stage Stage, filter shared.Filter) ([]Opportunity, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Opportunity, error)
	Save(ctx context.Context, opportunity *Opportunity) error
	SaveWithLock(ctx context.Context, opportunity *Opportunity) error
	// SaveWithHistory persists the opportunity and its stage history entry
	// in one transaction.
	SaveWithHistory(ctx context.Context, opportunity *Opportunity, history *StageHistory) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StageHistoryRepository defines the interface for stage history reads
type StageHistoryRepository interface {
	FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]StageHistory, error)
}

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)
	FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID, filter shared.Filter) ([]Activity, error)
	Save(ctx context.Context, activity *Activity) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) (int64, error)
}

// FollowUpRepository defines the interface for follow-up persistence
type FollowUpRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FollowUp, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FollowUp, error)
	FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]FollowUp, error)
	FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]FollowUp, error)
	Save(ctx context.Context, followUp *FollowUp) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

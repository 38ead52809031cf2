package pipeline

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityType classifies a logged interaction
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeNote    ActivityType = "note"
)

// Activity is a logged interaction against an opportunity
type Activity struct {
	shared.TenantAggregateRoot
	OpportunityID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type          ActivityType `gorm:"type:varchar(20);not null"`
	Summary       string       `gorm:"type:varchar(500);not null"`
	Details       string       `gorm:"type:text"`
	OccurredAt    time.Time    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "pipeline_activities"
}

// NewActivity logs an interaction against an opportunity
func NewActivity(tenantID, opportunityID uuid.UUID, activityType ActivityType, summary string, occurredAt time.Time) (*Activity, error) {
	if err := validateActivityType(activityType); err != nil {
		return nil, err
	}
	if summary == "" {
		return nil, shared.NewDomainError("INVALID_SUMMARY", "Activity summary cannot be empty")
	}
	if len(summary) > 500 {
		return nil, shared.NewDomainError("INVALID_SUMMARY", "Activity summary cannot exceed 500 characters")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &Activity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OpportunityID:       opportunityID,
		Type:                activityType,
		Summary:             summary,
		OccurredAt:          occurredAt,
	}, nil
}

// SetDetails sets the long-form body of the activity
func (a *Activity) SetDetails(details string) {
	a.Details = details
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

func validateActivityType(t ActivityType) error {
	switch t {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting, ActivityTypeNote:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid activity type")
	}
}

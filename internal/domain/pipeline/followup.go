package pipeline

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FollowUpStatus represents the status of a follow-up reminder
type FollowUpStatus string

const (
	FollowUpStatusPending   FollowUpStatus = "pending"
	FollowUpStatusDone      FollowUpStatus = "done"
	FollowUpStatusCancelled FollowUpStatus = "cancelled"
)

// FollowUp is a dated reminder to act on an opportunity
type FollowUp struct {
	shared.TenantAggregateRoot
	OpportunityID uuid.UUID      `gorm:"type:uuid;not null;index"`
	AssigneeID    *uuid.UUID     `gorm:"type:uuid;index"`
	Note          string         `gorm:"type:varchar(500);not null"`
	DueAt         time.Time      `gorm:"not null;index"`
	Status        FollowUpStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (FollowUp) TableName() string {
	return "pipeline_followups"
}

// NewFollowUp creates a pending follow-up reminder
func NewFollowUp(tenantID, opportunityID uuid.UUID, note string, dueAt time.Time) (*FollowUp, error) {
	if note == "" {
		return nil, shared.NewDomainError("INVALID_NOTE", "Follow-up note cannot be empty")
	}
	if len(note) > 500 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Follow-up note cannot exceed 500 characters")
	}
	if dueAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Follow-up due date is required")
	}

	return &FollowUp{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OpportunityID:       opportunityID,
		Note:                note,
		DueAt:               dueAt,
		Status:              FollowUpStatusPending,
	}, nil
}

// Assign assigns the follow-up to a user
func (f *FollowUp) Assign(assigneeID uuid.UUID) {
	f.AssigneeID = &assigneeID
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}

// Reschedule moves the due date of a pending follow-up
func (f *FollowUp) Reschedule(dueAt time.Time) error {
	if f.Status != FollowUpStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending follow-ups can be rescheduled")
	}
	if dueAt.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Follow-up due date is required")
	}

	f.DueAt = dueAt
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// Complete marks the follow-up as done
func (f *FollowUp) Complete() error {
	if f.Status != FollowUpStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending follow-ups can be completed")
	}

	now := time.Now()
	f.Status = FollowUpStatusDone
	f.CompletedAt = &now
	f.UpdatedAt = now
	f.IncrementVersion()

	return nil
}

// Cancel cancels a pending follow-up
func (f *FollowUp) Cancel() error {
	if f.Status != FollowUpStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending follow-ups can be cancelled")
	}

	f.Status = FollowUpStatusCancelled
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// IsOverdue returns true if the follow-up is pending past its due time
func (f *FollowUp) IsOverdue(now time.Time) bool {
	return f.Status == FollowUpStatusPending && f.DueAt.Before(now)
}

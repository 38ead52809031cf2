package pipeline

import (
	"time"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Opportunity DTOs
// =============================================================================

// CreateOpportunityRequest represents a request to create an opportunity
type CreateOpportunityRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	Title         string          `json:"title" binding:"required,min=1,max=200"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Probability   *int            `json:"probability" binding:"omitempty,min=0,max=100"`
	ExpectedClose *time.Time      `json:"expected_close"`
	OwnerID       *uuid.UUID      `json:"owner_id"`
}

// UpdateOpportunityRequest represents a request to update an opportunity
type UpdateOpportunityRequest struct {
	Title         *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Value         *decimal.Decimal `json:"value"`
	Probability   *int             `json:"probability" binding:"omitempty,min=0,max=100"`
	ExpectedClose *time.Time       `json:"expected_close"`
	OwnerID       *uuid.UUID       `json:"owner_id"`
}

// AdvanceStageRequest names the stage to move an opportunity into
type AdvanceStageRequest struct {
	Stage string `json:"stage" binding:"required,oneof=qualified proposal negotiation"`
}

// MarkLostRequest carries the required reason for losing an opportunity
type MarkLostRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OpportunityResponse represents an opportunity in API responses
type OpportunityResponse struct {
	ID            uuid.UUID       `json:"id"`
	ClientID      uuid.UUID       `json:"client_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Stage         string          `json:"stage"`
	Value         decimal.Decimal `json:"value"`
	Probability   int             `json:"probability"`
	WeightedValue decimal.Decimal `json:"weighted_value"`
	ExpectedClose *time.Time      `json:"expected_close,omitempty"`
	OwnerID       *uuid.UUID      `json:"owner_id,omitempty"`
	LostReason    string          `json:"lost_reason,omitempty"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// OpportunityListFilter represents filter options for the opportunity list
type OpportunityListFilter struct {
	Search   string     `form:"search"`
	Stage    string     `form:"stage" binding:"omitempty,oneof=lead qualified proposal negotiation won lost"`
	ClientID *uuid.UUID `form:"client_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StageHistoryResponse represents one stage transition in API responses
type StageHistoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	FromStage string     `json:"from_stage"`
	ToStage   string     `json:"to_stage"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}

// ToOpportunityResponse converts a domain Opportunity to a response
func ToOpportunityResponse(o *pipeline.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:            o.ID,
		ClientID:      o.ClientID,
		Title:         o.Title,
		Description:   o.Description,
		Stage:         string(o.Stage),
		Value:         o.Value,
		Probability:   o.Probability,
		WeightedValue: o.WeightedValue(),
		ExpectedClose: o.ExpectedClose,
		OwnerID:       o.OwnerID,
		LostReason:    o.LostReason,
		ClosedAt:      o.ClosedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Version:       o.Version,
	}
}

// ToOpportunityResponses converts domain Opportunities to responses
func ToOpportunityResponses(opportunities []pipeline.Opportunity) []OpportunityResponse {
	responses := make([]OpportunityResponse, len(opportunities))
	for i := range opportunities {
		responses[i] = ToOpportunityResponse(&opportunities[i])
	}
	return responses
}

// ToStageHistoryResponses converts domain StageHistory entries to responses
func ToStageHistoryResponses(history []pipeline.StageHistory) []StageHistoryResponse {
	responses := make([]StageHistoryResponse, len(history))
	for i, h := range history {
		responses[i] = StageHistoryResponse{
			ID:        h.ID,
			FromStage: string(h.FromStage),
			ToStage:   string(h.ToStage),
			ChangedBy: h.ChangedBy,
			Reason:    h.Reason,
			ChangedAt: h.ChangedAt,
		}
	}
	return responses
}

// =============================================================================
// Activity DTOs
// =============================================================================

// LogActivityRequest represents a request to log an interaction
type LogActivityRequest struct {
	Type       string     `json:"type" binding:"required,oneof=call email meeting note"`
	Summary    string     `json:"summary" binding:"required,min=1,max=500"`
	Details    string     `json:"details"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID            uuid.UUID `json:"id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Type          string    `json:"type"`
	Summary       string    `json:"summary"`
	Details       string    `json:"details,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToActivityResponse converts a domain Activity to a response
func ToActivityResponse(a *pipeline.Activity) ActivityResponse {
	return ActivityResponse{
		ID:            a.ID,
		OpportunityID: a.OpportunityID,
		Type:          string(a.Type),
		Summary:       a.Summary,
		Details:       a.Details,
		OccurredAt:    a.OccurredAt,
		CreatedAt:     a.CreatedAt,
	}
}

// ToActivityResponses converts domain Activities to responses
func ToActivityResponses(activities []pipeline.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = ToActivityResponse(&activities[i])
	}
	return responses
}

// =============================================================================
// Follow-up DTOs
// =============================================================================

// CreateFollowUpRequest represents a request to schedule a follow-up
type CreateFollowUpRequest struct {
	Note       string     `json:"note" binding:"required,min=1,max=500"`
	DueAt      time.Time  `json:"due_at" binding:"required"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// RescheduleFollowUpRequest moves a pending follow-up's due time
type RescheduleFollowUpRequest struct {
	DueAt time.Time `json:"due_at" binding:"required"`
}

// FollowUpResponse represents a follow-up in API responses
type FollowUpResponse struct {
	ID            uuid.UUID  `json:"id"`
	OpportunityID uuid.UUID  `json:"opportunity_id"`
	AssigneeID    *uuid.UUID `json:"assignee_id,omitempty"`
	Note          string     `json:"note"`
	DueAt         time.Time  `json:"due_at"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToFollowUpResponse converts a domain FollowUp to a response
func ToFollowUpResponse(f *pipeline.FollowUp) FollowUpResponse {
	return FollowUpResponse{
		ID:            f.ID,
		OpportunityID: f.OpportunityID,
		AssigneeID:    f.AssigneeID,
		Note:          f.Note,
		DueAt:         f.DueAt,
		Status:        string(f.Status),
		CompletedAt:   f.CompletedAt,
		CreatedAt:     f.CreatedAt,
	}
}

// ToFollowUpResponses converts domain FollowUps to responses
func ToFollowUpResponses(followUps []pipeline.FollowUp) []FollowUpResponse {
	responses := make([]FollowUpResponse, len(followUps))
	for i := range followUps {
		responses[i] = ToFollowUpResponse(&followUps[i])
	}
	return responses
}

package pipeline

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FollowUpService handles follow-up reminders on opportunities
type FollowUpService struct {
	followUpRepo    pipeline.FollowUpRepository
	opportunityRepo pipeline.OpportunityRepository
}

// NewFollowUpService creates a new FollowUpService
func NewFollowUpService(followUpRepo pipeline.FollowUpRepository, opportunityRepo pipeline.OpportunityRepository) *FollowUpService {
	return &FollowUpService{
		followUpRepo:    followUpRepo,
		opportunityRepo: opportunityRepo,
	}
}

// Create schedules a follow-up on an open opportunity
func (s *FollowUpService) Create(ctx context.Context, tenantID, opportunityID uuid.UUID, req CreateFollowUpRequest) (*FollowUpResponse, error) {
	opportunity, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}
	if opportunity.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot schedule a follow-up on a closed opportunity")
	}

	followUp, err := pipeline.NewFollowUp(tenantID, opportunityID, req.Note, req.DueAt)
	if err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		followUp.Assign(*req.AssigneeID)
	}

	if err := s.followUpRepo.Save(ctx, followUp); err != nil {
		return nil, err
	}

	response := ToFollowUpResponse(followUp)
	return &response, nil
}

// List retrieves the follow-ups scheduled on an opportunity
func (s *FollowUpService) List(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]FollowUpResponse, error) {
	if _, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID); err != nil {
		return nil, err
	}

	followUps, err := s.followUpRepo.FindByOpportunity(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}
	return ToFollowUpResponses(followUps), nil
}

// ListDue retrieves pending follow-ups due before the cutoff
func (s *FollowUpService) ListDue(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter OpportunityListFilter) ([]FollowUpResponse, error) {
	followUps, err := s.followUpRepo.FindDueBefore(ctx, tenantID, cutoff, buildOpportunityFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToFollowUpResponses(followUps), nil
}

// Reschedule moves a pending follow-up to a new due time
func (s *FollowUpService) Reschedule(ctx context.Context, tenantID, followUpID uuid.UUID, req RescheduleFollowUpRequest) (*FollowUpResponse, error) {
	return s.change(ctx, tenantID, followUpID, func(f *pipeline.FollowUp) error {
		return f.Reschedule(req.DueAt)
	})
}

// Complete marks a follow-up as done
func (s *FollowUpService) Complete(ctx context.Context, tenantID, followUpID uuid.UUID) (*FollowUpResponse, error) {
	return s.change(ctx, tenantID, followUpID, (*pipeline.FollowUp).Complete)
}

// Cancel cancels a pending follow-up
func (s *FollowUpService) Cancel(ctx context.Context, tenantID, followUpID uuid.UUID) (*FollowUpResponse, error) {
	return s.change(ctx, tenantID, followUpID, (*pipeline.FollowUp).Cancel)
}

func (s *FollowUpService) change(ctx context.Context, tenantID, followUpID uuid.UUID, op func(*pipeline.FollowUp) error) (*FollowUpResponse, error) {
	followUp, err := s.followUpRepo.FindByIDForTenant(ctx, tenantID, followUpID)
	if err != nil {
		return nil, err
	}

	if err := op(followUp); err != nil {
		return nil, err
	}

	if err := s.followUpRepo.Save(ctx, followUp); err != nil {
		return nil, err
	}

	response := ToFollowUpResponse(followUp)
	return &response, nil
}

// Delete removes a follow-up
func (s *FollowUpService) Delete(ctx context.Context, tenantID, followUpID uuid.UUID) error {
	return s.followUpRepo.DeleteForTenant(ctx, tenantID, followUpID)
}

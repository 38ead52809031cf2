package pipeline

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/google/uuid"
)

// ActivityService handles interaction logging against opportunities
type ActivityService struct {
	activityRepo    pipeline.ActivityRepository
	opportunityRepo pipeline.OpportunityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo pipeline.ActivityRepository, opportunityRepo pipeline.OpportunityRepository) *ActivityService {
	return &ActivityService{
		activityRepo:    activityRepo,
		opportunityRepo: opportunityRepo,
	}
}

// Log records an interaction against an opportunity
func (s *ActivityService) Log(ctx context.Context, tenantID, opportunityID uuid.UUID, req LogActivityRequest) (*ActivityResponse, error) {
	if _, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID); err != nil {
		return nil, err
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	activity, err := pipeline.NewActivity(tenantID, opportunityID, pipeline.ActivityType(req.Type), req.Summary, occurredAt)
	if err != nil {
		return nil, err
	}
	if req.Details != "" {
		activity.SetDetails(req.Details)
	}

	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return nil, err
	}

	response := ToActivityResponse(activity)
	return &response, nil
}

// List retrieves the activities logged against an opportunity
func (s *ActivityService) List(ctx context.Context, tenantID, opportunityID uuid.UUID, filter OpportunityListFilter) ([]ActivityResponse, int64, error) {
	if _, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID); err != nil {
		return nil, 0, err
	}

	activities, err := s.activityRepo.FindByOpportunity(ctx, tenantID, opportunityID, buildOpportunityFilter(filter))
	if err != nil {
		return nil, 0, err
	}

	total, err := s.activityRepo.CountByOpportunity(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, 0, err
	}

	return ToActivityResponses(activities), total, nil
}

// Delete removes a logged activity
func (s *ActivityService) Delete(ctx context.Context, tenantID, activityID uuid.UUID) error {
	return s.activityRepo.DeleteForTenant(ctx, tenantID, activityID)
}

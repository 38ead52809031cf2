package pipeline

import (
	"context"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityService handles sales opportunity business operations
type OpportunityService struct {
	opportunityRepo pipeline.OpportunityRepository
	historyRepo     pipeline.StageHistoryRepository
	clientRepo      directory.ClientRepository
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(
	opportunityRepo pipeline.OpportunityRepository,
	historyRepo pipeline.StageHistoryRepository,
	clientRepo directory.ClientRepository,
) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		historyRepo:     historyRepo,
		clientRepo:      clientRepo,
	}
}

// Create creates a new opportunity in the lead stage
func (s *OpportunityService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOpportunityRequest) (*OpportunityResponse, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}

	opportunity, err := pipeline.NewOpportunity(tenantID, req.ClientID, req.Title, req.Value)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := opportunity.Update(req.Title, req.Description, req.Value); err != nil {
			return nil, err
		}
	}
	if req.Probability != nil {
		if err := opportunity.SetProbability(*req.Probability); err != nil {
			return nil, err
		}
	}
	if req.ExpectedClose != nil {
		opportunity.SetExpectedClose(req.ExpectedClose)
	}
	if req.OwnerID != nil {
		opportunity.AssignOwner(*req.OwnerID)
	}

	if err := s.opportunityRepo.Save(ctx, opportunity); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// GetByID retrieves an opportunity by ID
func (s *OpportunityService) GetByID(ctx context.Context, tenantID, opportunityID uuid.UUID) (*OpportunityResponse, error) {
	opportunity, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// List retrieves opportunities with filtering and pagination
func (s *OpportunityService) List(ctx context.Context, tenantID uuid.UUID, filter OpportunityListFilter) ([]OpportunityResponse, int64, error) {
	domainFilter := buildOpportunityFilter(filter)

	var (
		opportunities []pipeline.Opportunity
		err           error
	)
	if filter.Stage != "" {
		opportunities, err = s.opportunityRepo.FindByStage(ctx, tenantID, pipeline.Stage(filter.Stage), domainFilter)
	} else {
		opportunities, err = s.opportunityRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.opportunityRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOpportunityResponses(opportunities), total, nil
}

// Update updates an open opportunity
func (s *OpportunityService) Update(ctx context.Context, tenantID, opportunityID uuid.UUID, req UpdateOpportunityRequest) (*OpportunityResponse, error) {
	opportunity, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	title := opportunity.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := opportunity.Description
	if req.Description != nil {
		description = *req.Description
	}
	value := opportunity.Value
	if req.Value != nil {
		value = *req.Value
	}
	if err := opportunity.Update(title, description, value); err != nil {
		return nil, err
	}

	if req.Probability != nil {
		if err := opportunity.SetProbability(*req.Probability); err != nil {
			return nil, err
		}
	}
	if req.ExpectedClose != nil {
		opportunity.SetExpectedClose(req.ExpectedClose)
	}
	if req.OwnerID != nil {
		opportunity.AssignOwner(*req.OwnerID)
	}

	if err := s.opportunityRepo.SaveWithLock(ctx, opportunity); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// AdvanceStage moves an opportunity forward through the pipeline and
// records the transition
func (s *OpportunityService) AdvanceStage(ctx context.Context, tenantID, opportunityID uuid.UUID, req AdvanceStageRequest, changedBy *uuid.UUID) (*OpportunityResponse, error) {
	return s.stageChange(ctx, tenantID, opportunityID, func(o *pipeline.Opportunity) (*pipeline.StageHistory, error) {
		return o.AdvanceStage(pipeline.Stage(req.Stage), changedBy)
	})
}

// MarkWon closes an opportunity as won
func (s *OpportunityService) MarkWon(ctx context.Context, tenantID, opportunityID uuid.UUID, changedBy *uuid.UUID) (*OpportunityResponse, error) {
	return s.stageChange(ctx, tenantID, opportunityID, func(o *pipeline.Opportunity) (*pipeline.StageHistory, error) {
		return o.MarkWon(changedBy)
	})
}

// MarkLost closes an opportunity as lost with a reason
func (s *OpportunityService) MarkLost(ctx context.Context, tenantID, opportunityID uuid.UUID, req MarkLostRequest, changedBy *uuid.UUID) (*OpportunityResponse, error) {
	return s.stageChange(ctx, tenantID, opportunityID, func(o *pipeline.Opportunity) (*pipeline.StageHistory, error) {
		return o.MarkLost(req.Reason, changedBy)
	})
}

func (s *OpportunityService) stageChange(ctx context.Context, tenantID, opportunityID uuid.UUID, op func(*pipeline.Opportunity) (*pipeline.StageHistory, error)) (*OpportunityResponse, error) {
	opportunity, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	history, err := op(opportunity)
	if err != nil {
		return nil, err
	}

	if err := s.opportunityRepo.SaveWithHistory(ctx, opportunity, history); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opportunity)
	return &response, nil
}

// GetHistory retrieves the stage transition history of an opportunity
func (s *OpportunityService) GetHistory(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]StageHistoryResponse, error) {
	if _, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.FindByOpportunity(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}
	return ToStageHistoryResponses(history), nil
}

// Delete soft-deletes a closed opportunity
func (s *OpportunityService) Delete(ctx context.Context, tenantID, opportunityID uuid.UUID) error {
	opportunity, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID)
	if err != nil {
		return err
	}

	if !opportunity.IsClosed() {
		return shared.NewDomainError("CANNOT_DELETE", "Only won or lost opportunities can be deleted")
	}

	return s.opportunityRepo.DeleteForTenant(ctx, tenantID, opportunityID)
}

func buildOpportunityFilter(filter OpportunityListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	if domainFilter.Page == 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize == 0 {
		domainFilter.PageSize = 20
	}

	return domainFilter
}

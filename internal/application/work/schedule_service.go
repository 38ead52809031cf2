package work

import (
	"context"

	"github.com/fieldops/backend/internal/domain/work"
	"github.com/google/uuid"
)

// ScheduleService handles calendar operations
type ScheduleService struct {
	eventRepo work.ScheduleEventRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(eventRepo work.ScheduleEventRepository) *ScheduleService {
	return &ScheduleService{eventRepo: eventRepo}
}

// Create creates a calendar event
func (s *ScheduleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateScheduleEventRequest) (*ScheduleEventResponse, error) {
	event, err := work.NewScheduleEvent(tenantID, req.Title, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	if req.Details != "" || req.Location != "" {
		if err := event.Update(req.Title, req.Details, req.Location); err != nil {
			return nil, err
		}
	}

	if req.AllDay {
		event.SetAllDay(true)
	}
	if req.ProjectID != nil {
		event.LinkProject(*req.ProjectID)
	}
	if req.ClientID != nil {
		event.LinkClient(*req.ClientID)
	}
	if req.AssigneeID != nil {
		event.Assign(*req.AssigneeID)
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	response := ToScheduleEventResponse(event)
	return &response, nil
}

// GetByID retrieves a calendar event by ID
func (s *ScheduleService) GetByID(ctx context.Context, tenantID, eventID uuid.UUID) (*ScheduleEventResponse, error) {
	event, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}

	response := ToScheduleEventResponse(event)
	return &response, nil
}

// ListRange retrieves events overlapping a calendar window, optionally
// narrowed to one assignee
func (s *ScheduleService) ListRange(ctx context.Context, tenantID uuid.UUID, filter ScheduleRangeFilter) ([]ScheduleEventResponse, error) {
	var (
		events []work.ScheduleEvent
		err    error
	)
	if filter.AssigneeID != nil {
		events, err = s.eventRepo.FindByAssignee(ctx, tenantID, *filter.AssigneeID, filter.From, filter.To)
	} else {
		events, err = s.eventRepo.FindInRange(ctx, tenantID, filter.From, filter.To)
	}
	if err != nil {
		return nil, err
	}
	return ToScheduleEventResponses(events), nil
}

// Update updates a calendar event
func (s *ScheduleService) Update(ctx context.Context, tenantID, eventID uuid.UUID, req UpdateScheduleEventRequest) (*ScheduleEventResponse, error) {
	event, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}

	if req.StartsAt != nil || req.EndsAt != nil {
		startsAt := event.StartsAt
		endsAt := event.EndsAt
		if req.StartsAt != nil {
			startsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			endsAt = *req.EndsAt
		}
		if err := event.Reschedule(startsAt, endsAt); err != nil {
			return nil, err
		}
	}

	if req.Title != nil || req.Details != nil || req.Location != nil {
		title := event.Title
		details := event.Details
		location := event.Location
		if req.Title != nil {
			title = *req.Title
		}
		if req.Details != nil {
			details = *req.Details
		}
		if req.Location != nil {
			location = *req.Location
		}
		if err := event.Update(title, details, location); err != nil {
			return nil, err
		}
	}

	if req.AllDay != nil {
		event.SetAllDay(*req.AllDay)
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	response := ToScheduleEventResponse(event)
	return &response, nil
}

// Delete removes a calendar event
func (s *ScheduleService) Delete(ctx context.Context, tenantID, eventID uuid.UUID) error {
	return s.eventRepo.DeleteForTenant(ctx, tenantID, eventID)
}

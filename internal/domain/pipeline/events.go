package pipeline

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names for the pipeline context
const (
	EventTypeOpportunityCreated      = "pipeline.opportunity.created"
	EventTypeOpportunityStageChanged = "pipeline.opportunity.stage_changed"
	EventTypeOpportunityWon          = "pipeline.opportunity.won"
	EventTypeOpportunityLost         = "pipeline.opportunity.lost"
)

// OpportunityCreatedEvent is emitted when an opportunity is created
type OpportunityCreatedEvent struct {
	shared.BaseDomainEvent
	Title string
	Value decimal.Decimal
}

// NewOpportunityCreatedEvent creates a new OpportunityCreatedEvent
func NewOpportunityCreatedEvent(o *Opportunity) OpportunityCreatedEvent {
	return OpportunityCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityCreated, o.ID, o.TenantID),
		Title:           o.Title,
		Value:           o.Value,
	}
}

// OpportunityStageChangedEvent is emitted on every stage transition
type OpportunityStageChangedEvent struct {
	shared.BaseDomainEvent
	FromStage Stage
	ToStage   Stage
}

// NewOpportunityStageChangedEvent creates a new OpportunityStageChangedEvent
func NewOpportunityStageChangedEvent(o *Opportunity, from, to Stage) OpportunityStageChangedEvent {
	return OpportunityStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityStageChanged, o.ID, o.TenantID),
		FromStage:       from,
		ToStage:         to,
	}
}

// OpportunityWonEvent is emitted when an opportunity closes as won
type OpportunityWonEvent struct {
	shared.BaseDomainEvent
	Title string
	Value decimal.Decimal
}

// NewOpportunityWonEvent creates a new OpportunityWonEvent
func NewOpportunityWonEvent(o *Opportunity) OpportunityWonEvent {
	return OpportunityWonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityWon, o.ID, o.TenantID),
		Title:           o.Title,
		Value:           o.Value,
	}
}

// OpportunityLostEvent is emitted when an opportunity closes as lost
type OpportunityLostEvent struct {
	shared.BaseDomainEvent
	Title  string
	Reason string
}

// NewOpportunityLostEvent creates a new OpportunityLostEvent
func NewOpportunityLostEvent(o *Opportunity, reason string) OpportunityLostEvent {
	return OpportunityLostEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityLost, o.ID, o.TenantID),
		Title:           o.Title,
		Reason:          reason,
	}
}

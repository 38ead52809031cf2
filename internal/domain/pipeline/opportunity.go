package pipeline

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage represents a sales pipeline stage
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageWon         Stage = "won"
	StageLost        Stage = "lost"
)

// stageOrder gives the forward progression of open stages
var stageOrder = map[Stage]int{
	StageLead:        0,
	StageQualified:   1,
	StageProposal:    2,
	StageNegotiation: 3,
}

// Opportunity represents a potential sale being worked through the
// pipeline. Stage changes go through AdvanceStage, MarkWon, or MarkLost
// so every change produces a history entry.
type Opportunity struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title         string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Stage         Stage           `gorm:"type:varchar(20);not null;default:'lead';index"`
	Value         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Probability   int             `gorm:"not null;default:0"` // percent
	ExpectedClose *time.Time
	OwnerID       *uuid.UUID `gorm:"type:uuid;index"`
	LostReason    string     `gorm:"type:varchar(500)"`
	ClosedAt      *time.Time
}

// TableName returns the table name for GORM
func (Opportunity) TableName() string {
	return "opportunities"
}

// NewOpportunity creates a new opportunity in the lead stage
func NewOpportunity(tenantID, clientID uuid.UUID, title string, value decimal.Decimal) (*Opportunity, error) {
	if err := validateOpportunityTitle(title); err != nil {
		return nil, err
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Opportunity value cannot be negative")
	}

	opp := &Opportunity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Title:               title,
		Stage:               StageLead,
		Value:               value,
	}

	opp.AddDomainEvent(NewOpportunityCreatedEvent(opp))

	return opp, nil
}

// Update updates the opportunity details
func (o *Opportunity) Update(title, description string, value decimal.Decimal) error {
	if o.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed opportunity")
	}
	if err := validateOpportunityTitle(title); err != nil {
		return err
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Opportunity value cannot be negative")
	}

	o.Title = title
	o.Description = description
	o.Value = value
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetProbability sets the win probability in percent
func (o *Opportunity) SetProbability(probability int) error {
	if probability < 0 || probability > 100 {
		return shared.NewDomainError("INVALID_PROBABILITY", "Probability must be between 0 and 100")
	}

	o.Probability = probability
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetExpectedClose sets the forecast close date
func (o *Opportunity) SetExpectedClose(date *time.Time) {
	o.ExpectedClose = date
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// AssignOwner assigns the opportunity to a user
func (o *Opportunity) AssignOwner(ownerID uuid.UUID) {
	o.OwnerID = &ownerID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// AdvanceStage moves the opportunity one stage forward. Skipping stages
// and moving backwards are rejected; use MarkWon or MarkLost to close.
func (o *Opportunity) AdvanceStage(to Stage, changedBy *uuid.UUID) (*StageHistory, error) {
	if o.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot change the stage of a closed opportunity")
	}
	if to == StageWon || to == StageLost {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Use the win or lose operation to close an opportunity")
	}

	fromOrder, ok := stageOrder[o.Stage]
	if !ok {
		return nil, shared.ErrInvalidState
	}
	toOrder, ok := stageOrder[to]
	if !ok {
		return nil, shared.NewDomainError("INVALID_STAGE", "Unknown pipeline stage")
	}
	if toOrder != fromOrder+1 {
		return nil, shared.ErrInvalidTransition
	}

	history := o.recordStageChange(to, changedBy, "")
	o.Stage = to
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOpportunityStageChangedEvent(o, history.FromStage, to))

	return history, nil
}

// MarkWon closes the opportunity as won. Winning is allowed from the
// negotiation stage only.
func (o *Opportunity) MarkWon(changedBy *uuid.UUID) (*StageHistory, error) {
	if o.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Opportunity is already closed")
	}
	if o.Stage != StageNegotiation {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Only opportunities in negotiation can be won")
	}

	history := o.recordStageChange(StageWon, changedBy, "")
	o.Stage = StageWon
	now := time.Now()
	o.ClosedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOpportunityWonEvent(o))

	return history, nil
}

// MarkLost closes the opportunity as lost. Losing is allowed from any
// open stage and requires a reason.
func (o *Opportunity) MarkLost(reason string, changedBy *uuid.UUID) (*StageHistory, error) {
	if o.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Opportunity is already closed")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Lost reason cannot be empty")
	}
	if len(reason) > 500 {
		return nil, shared.NewDomainError("INVALID_REASON", "Lost reason cannot exceed 500 characters")
	}

	history := o.recordStageChange(StageLost, changedBy, reason)
	o.Stage = StageLost
	o.LostReason = reason
	now := time.Now()
	o.ClosedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOpportunityLostEvent(o, reason))

	return history, nil
}

// IsClosed returns true once the opportunity is won or lost.
// Closed opportunities cannot be reopened.
func (o *Opportunity) IsClosed() bool {
	return o.Stage == StageWon || o.Stage == StageLost
}

// WeightedValue returns value scaled by the win probability
func (o *Opportunity) WeightedValue() decimal.Decimal {
	return o.Value.Mul(decimal.NewFromInt(int64(o.Probability))).Div(decimal.NewFromInt(100))
}

func (o *Opportunity) recordStageChange(to Stage, changedBy *uuid.UUID, reason string) *StageHistory {
	return NewStageHistory(o.TenantID, o.ID, o.Stage, to, changedBy, reason)
}

func validateOpportunityTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Opportunity title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Opportunity title cannot exceed 200 characters")
	}
	return nil
}

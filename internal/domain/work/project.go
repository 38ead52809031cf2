package work

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// projectTransitions maps each status to the statuses it may move to.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusDraft:     {ProjectStatusActive, ProjectStatusCancelled},
	ProjectStatusActive:    {ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled},
	ProjectStatusOnHold:    {ProjectStatusActive, ProjectStatusCancelled},
	ProjectStatusCompleted: {},
	ProjectStatusCancelled: {},
}

// Project represents a job performed for a client
type Project struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_project_tenant_number,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Status      ProjectStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	Budget      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StartDate   *time.Time
	EndDate     *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project in draft status
func NewProject(tenantID, clientID uuid.UUID, number, name string) (*Project, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Project number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}

	project := &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Number:              number,
		Name:                name,
		Status:              ProjectStatusDraft,
		Budget:              decimal.Zero,
	}

	project.AddDomainEvent(NewProjectCreatedEvent(project))

	return project, nil
}

// Update updates the project's basic details
func (p *Project) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetBudget sets the project budget
func (p *Project) SetBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}

	p.Budget = budget
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDates sets the planned start and end dates
func (p *Project) SetDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	p.StartDate = start
	p.EndDate = end
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// TransitionTo moves the project to a new status, enforcing the lifecycle
// draft -> active -> on_hold/completed/cancelled.
func (p *Project) TransitionTo(target ProjectStatus) error {
	if p.Status == target {
		return shared.NewDomainError("INVALID_STATE", "Project is already in this status")
	}

	allowed, ok := projectTransitions[p.Status]
	if !ok {
		return shared.ErrInvalidState
	}
	permitted := false
	for _, s := range allowed {
		if s == target {
			permitted = true
			break
		}
	}
	if !permitted {
		return shared.ErrInvalidTransition
	}

	oldStatus := p.Status
	p.Status = target
	if target == ProjectStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProjectStatusChangedEvent(p, oldStatus, target))

	return nil
}

// Activate moves a draft or on-hold project to active
func (p *Project) Activate() error {
	return p.TransitionTo(ProjectStatusActive)
}

// Complete marks the project completed
func (p *Project) Complete() error {
	return p.TransitionTo(ProjectStatusCompleted)
}

// Cancel cancels the project
func (p *Project) Cancel() error {
	return p.TransitionTo(ProjectStatusCancelled)
}

// IsOpen returns true if the project can still receive work
func (p *Project) IsOpen() bool {
	return p.Status == ProjectStatusDraft || p.Status == ProjectStatusActive || p.Status == ProjectStatusOnHold
}

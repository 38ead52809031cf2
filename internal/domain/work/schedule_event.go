package work

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ScheduleEvent represents a calendar entry: a site visit, appointment,
// or internal block of time.
type ScheduleEvent struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	Title      string     `gorm:"type:varchar(300);not null"`
	Details    string     `gorm:"type:text"`
	StartsAt   time.Time  `gorm:"not null;index"`
	EndsAt     time.Time  `gorm:"not null"`
	AllDay     bool       `gorm:"not null;default:false"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index"`
	Location   string     `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (ScheduleEvent) TableName() string {
	return "schedule_events"
}

// NewScheduleEvent creates a new calendar event
func NewScheduleEvent(tenantID uuid.UUID, title string, startsAt, endsAt time.Time) (*ScheduleEvent, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Event title cannot be empty")
	}
	if !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_TIME_RANGE", "Event end must be after start")
	}

	return &ScheduleEvent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		StartsAt:            startsAt,
		EndsAt:              endsAt,
	}, nil
}

// Reschedule moves the event to a new time window
func (e *ScheduleEvent) Reschedule(startsAt, endsAt time.Time) error {
	if !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_TIME_RANGE", "Event end must be after start")
	}

	e.StartsAt = startsAt
	e.EndsAt = endsAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Update updates title, details and location
func (e *ScheduleEvent) Update(title, details, location string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Event title cannot be empty")
	}

	e.Title = title
	e.Details = details
	e.Location = location
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetAllDay marks the event as an all-day entry
func (e *ScheduleEvent) SetAllDay(allDay bool) {
	e.AllDay = allDay
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// LinkProject links the event to a project
func (e *ScheduleEvent) LinkProject(projectID uuid.UUID) {
	e.ProjectID = &projectID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// LinkClient links the event to a client
func (e *ScheduleEvent) LinkClient(clientID uuid.UUID) {
	e.ClientID = &clientID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Assign assigns the event to a user
func (e *ScheduleEvent) Assign(userID uuid.UUID) {
	e.AssigneeID = &userID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Overlaps reports whether the event overlaps the given window
func (e *ScheduleEvent) Overlaps(from, to time.Time) bool {
	return e.StartsAt.Before(to) && e.EndsAt.After(from)
}

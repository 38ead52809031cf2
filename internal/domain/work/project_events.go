package work

import (
	"github.com/fieldops/backend/internal/domain/shared"
)

// Event type names for the work context
const (
	EventTypeProjectCreated       = "work.project.created"
	EventTypeProjectStatusChanged = "work.project.status_changed"
	EventTypeTaskCompleted        = "work.task.completed"
)

// ProjectCreatedEvent is emitted when a project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Number string
	Name   string
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) ProjectCreatedEvent {
	return ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, p.ID, p.TenantID),
		Number:          p.Number,
		Name:            p.Name,
	}
}

// ProjectStatusChangedEvent is emitted on every project status transition
type ProjectStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ProjectStatus
	NewStatus ProjectStatus
}

// NewProjectStatusChangedEvent creates a new ProjectStatusChangedEvent
func NewProjectStatusChangedEvent(p *Project, oldStatus, newStatus ProjectStatus) ProjectStatusChangedEvent {
	return ProjectStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectStatusChanged, p.ID, p.TenantID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TaskCompletedEvent is emitted when a task is marked done
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Title string
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent
func NewTaskCompletedEvent(t *Task) TaskCompletedEvent {
	return TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, t.ID, t.TenantID),
		Title:           t.Title,
	}
}

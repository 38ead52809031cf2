package work

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task represents a unit of work, optionally attached to a project
type Task struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	ProjectID   *uuid.UUID   `gorm:"type:uuid;index"`
	Title       string       `gorm:"type:varchar(300);not null"`
	Description string       `gorm:"type:text"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'"`
	AssigneeID  *uuid.UUID   `gorm:"type:uuid;index"`
	DueDate     *time.Time   `gorm:"index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new task in todo status
func NewTask(tenantID uuid.UUID, title string) (*Task, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 300 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 300 characters")
	}

	return &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Status:              TaskStatusTodo,
		Priority:            TaskPriorityMedium,
	}, nil
}

// Update updates the task's details
func (t *Task) Update(title, description string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 300 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 300 characters")
	}

	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// AttachToProject links the task to a project
func (t *Task) AttachToProject(projectID uuid.UUID) {
	t.ProjectID = &projectID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Assign assigns the task to a user
func (t *Task) Assign(userID uuid.UUID) {
	t.AssigneeID = &userID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Unassign removes the task's assignee
func (t *Task) Unassign() {
	t.AssigneeID = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetPriority sets the task priority
func (t *Task) SetPriority(priority TaskPriority) error {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
	default:
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid task priority")
	}

	t.Priority = priority
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetDueDate sets or clears the due date
func (t *Task) SetDueDate(due *time.Time) {
	t.DueDate = due
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Start moves the task to in_progress
func (t *Task) Start() error {
	if t.Status != TaskStatusTodo {
		return shared.ErrInvalidState
	}

	t.Status = TaskStatusInProgress
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Complete marks the task done
func (t *Task) Complete() error {
	if t.Status == TaskStatusDone {
		return shared.NewDomainError("ALREADY_DONE", "Task is already done")
	}
	if t.Status == TaskStatusCancelled {
		return shared.ErrInvalidState
	}

	now := time.Now()
	t.Status = TaskStatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskCompletedEvent(t))

	return nil
}

// Reopen moves a done task back to todo
func (t *Task) Reopen() error {
	if t.Status != TaskStatusDone {
		return shared.ErrInvalidState
	}

	t.Status = TaskStatusTodo
	t.CompletedAt = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Cancel cancels the task
func (t *Task) Cancel() error {
	if t.Status == TaskStatusDone || t.Status == TaskStatusCancelled {
		return shared.ErrInvalidState
	}

	t.Status = TaskStatusCancelled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsOverdue returns true if the task has a due date in the past and is not done
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) &&
		t.Status != TaskStatusDone && t.Status != TaskStatusCancelled
}

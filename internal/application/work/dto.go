package work

import (
	"time"

	"github.com/fieldops/backend/internal/domain/work"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Project DTOs
// =============================================================================

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	ClientID    uuid.UUID        `json:"client_id" binding:"required"`
	Number      string           `json:"number" binding:"required,min=1,max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"client_id"`
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ProjectListFilter represents filter options for the project list
type ProjectListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft active on_hold completed cancelled"`
	ClientID *uuid.UUID `form:"client_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProjectResponse converts a domain Project to ProjectResponse
func ToProjectResponse(p *work.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Number:      p.Number,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Budget:      p.Budget,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProjectResponses converts domain Projects to responses
func ToProjectResponses(projects []work.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}

// =============================================================================
// Task DTOs
// =============================================================================

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=300"`
	Description string     `json:"description"`
	ProjectID   *uuid.UUID `json:"project_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest represents a request to update a task
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=300"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// TaskListFilter represents filter options for the task list
type TaskListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=todo in_progress done cancelled"`
	ProjectID  *uuid.UUID `form:"project_id"`
	AssigneeID *uuid.UUID `form:"assignee_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *work.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
}

// ToTaskResponses converts domain Tasks to responses
func ToTaskResponses(tasks []work.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i])
	}
	return responses
}

// =============================================================================
// Schedule DTOs
// =============================================================================

// CreateScheduleEventRequest represents a request to create a calendar event
type CreateScheduleEventRequest struct {
	Title      string     `json:"title" binding:"required,min=1,max=300"`
	Details    string     `json:"details"`
	StartsAt   time.Time  `json:"starts_at" binding:"required"`
	EndsAt     time.Time  `json:"ends_at" binding:"required"`
	AllDay     bool       `json:"all_day"`
	ProjectID  *uuid.UUID `json:"project_id"`
	ClientID   *uuid.UUID `json:"client_id"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
	Location   string     `json:"location" binding:"max=300"`
}

// UpdateScheduleEventRequest represents a request to update a calendar event
type UpdateScheduleEventRequest struct {
	Title    *string    `json:"title" binding:"omitempty,min=1,max=300"`
	Details  *string    `json:"details"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	AllDay   *bool      `json:"all_day"`
	Location *string    `json:"location" binding:"omitempty,max=300"`
}

// ScheduleEventResponse represents a calendar event in API responses
type ScheduleEventResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Details    string     `json:"details"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     time.Time  `json:"ends_at"`
	AllDay     bool       `json:"all_day"`
	ProjectID  *uuid.UUID `json:"project_id,omitempty"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	Location   string     `json:"location"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ScheduleRangeFilter selects the calendar window to load
type ScheduleRangeFilter struct {
	From       time.Time  `form:"from" binding:"required"`
	To         time.Time  `form:"to" binding:"required"`
	AssigneeID *uuid.UUID `form:"assignee_id"`
}

// ToScheduleEventResponse converts a domain ScheduleEvent to a response
func ToScheduleEventResponse(e *work.ScheduleEvent) ScheduleEventResponse {
	return ScheduleEventResponse{
		ID:         e.ID,
		Title:      e.Title,
		Details:    e.Details,
		StartsAt:   e.StartsAt,
		EndsAt:     e.EndsAt,
		AllDay:     e.AllDay,
		ProjectID:  e.ProjectID,
		ClientID:   e.ClientID,
		AssigneeID: e.AssigneeID,
		Location:   e.Location,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ToScheduleEventResponses converts domain ScheduleEvents to responses
func ToScheduleEventResponses(events []work.ScheduleEvent) []ScheduleEventResponse {
	responses := make([]ScheduleEventResponse, len(events))
	for i := range events {
		responses[i] = ToScheduleEventResponse(&events[i])
	}
	return responses
}

package work

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/work"
	"github.com/google/uuid"
)

// TaskService handles task-related business operations
type TaskService struct {
	taskRepo    work.TaskRepository
	projectRepo work.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo work.TaskRepository, projectRepo work.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// Create creates a new task
func (s *TaskService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	task, err := work.NewTask(tenantID, req.Title)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := task.Update(req.Title, req.Description); err != nil {
			return nil, err
		}
	}

	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, *req.ProjectID); err != nil {
			return nil, err
		}
		task.AttachToProject(*req.ProjectID)
	}

	if req.AssigneeID != nil {
		task.Assign(*req.AssigneeID)
	}

	if req.Priority != "" {
		if err := task.SetPriority(work.TaskPriority(req.Priority)); err != nil {
			return nil, err
		}
	}

	if req.DueDate != nil {
		task.SetDueDate(req.DueDate)
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// List retrieves tasks with filtering and pagination
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, filter TaskListFilter) ([]TaskResponse, int64, error) {
	domainFilter := buildTaskFilter(filter)

	tasks, err := s.taskRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.taskRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTaskResponses(tasks), total, nil
}

// ListOverdue retrieves open tasks past their due date
func (s *TaskService) ListOverdue(ctx context.Context, tenantID uuid.UUID, filter TaskListFilter) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindOverdue(ctx, tenantID, time.Now(), buildTaskFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// Update updates a task's fields
func (s *TaskService) Update(ctx context.Context, tenantID, taskID uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Description != nil {
		title := task.Title
		description := task.Description
		if req.Title != nil {
			title = *req.Title
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := task.Update(title, description); err != nil {
			return nil, err
		}
	}

	if req.Priority != nil {
		if err := task.SetPriority(work.TaskPriority(*req.Priority)); err != nil {
			return nil, err
		}
	}

	if req.DueDate != nil {
		task.SetDueDate(req.DueDate)
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// Assign assigns a task to a user
func (s *TaskService) Assign(ctx context.Context, tenantID, taskID, userID uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	task.Assign(userID)

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// Unassign removes the task's assignee
func (s *TaskService) Unassign(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	task.Unassign()

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// Start moves a task to in progress
func (s *TaskService) Start(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, (*work.Task).Start)
}

// Complete marks a task done
func (s *TaskService) Complete(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, (*work.Task).Complete)
}

// Reopen moves a done or cancelled task back to todo
func (s *TaskService) Reopen(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, (*work.Task).Reopen)
}

// Cancel cancels a task
func (s *TaskService) Cancel(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, taskID, (*work.Task).Cancel)
}

func (s *TaskService) transition(ctx context.Context, tenantID, taskID uuid.UUID, op func(*work.Task) error) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	if err := op(task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	response := ToTaskResponse(task)
	return &response, nil
}

// Delete soft-deletes a task
func (s *TaskService) Delete(ctx context.Context, tenantID, taskID uuid.UUID) error {
	return s.taskRepo.DeleteForTenant(ctx, tenantID, taskID)
}

func buildTaskFilter(filter TaskListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ProjectID != nil {
		domainFilter.Filters["project_id"] = *filter.ProjectID
	}
	if filter.AssigneeID != nil {
		domainFilter.Filters["assignee_id"] = *filter.AssigneeID
	}
	return domainFilter
}

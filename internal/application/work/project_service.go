package work

import (
	"context"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/work"
	"github.com/google/uuid"
)

// ProjectService handles project-related business operations
type ProjectService struct {
	projectRepo work.ProjectRepository
	taskRepo    work.TaskRepository
	clientRepo  directory.ClientRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo work.ProjectRepository, taskRepo work.TaskRepository, clientRepo directory.ClientRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new project for a client
func (s *ProjectService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}

	exists, err := s.projectRepo.ExistsByNumber(ctx, tenantID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Project with this number already exists")
	}

	project, err := work.NewProject(tenantID, req.ClientID, req.Number, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := project.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if req.Budget != nil {
		if err := project.SetBudget(*req.Budget); err != nil {
			return nil, err
		}
	}

	if req.StartDate != nil || req.EndDate != nil {
		if err := project.SetDates(req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

// List retrieves projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, tenantID uuid.UUID, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
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
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	projects, err := s.projectRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.projectRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProjectResponses(projects), total, nil
}

// Update updates a project
func (s *ProjectService) Update(ctx context.Context, tenantID, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := project.Name
		description := project.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := project.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Budget != nil {
		if err := project.SetBudget(*req.Budget); err != nil {
			return nil, err
		}
	}

	if req.StartDate != nil || req.EndDate != nil {
		start := project.StartDate
		end := project.EndDate
		if req.StartDate != nil {
			start = req.StartDate
		}
		if req.EndDate != nil {
			end = req.EndDate
		}
		if err := project.SetDates(start, end); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.SaveWithLock(ctx, project); err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

// Activate moves a project into the active status
func (s *ProjectService) Activate(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, projectID, work.ProjectStatusActive)
}

// Hold moves a project on hold
func (s *ProjectService) Hold(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, projectID, work.ProjectStatusOnHold)
}

// Complete marks a project as completed
func (s *ProjectService) Complete(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, projectID, work.ProjectStatusCompleted)
}

// Cancel cancels a project
func (s *ProjectService) Cancel(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, projectID, work.ProjectStatusCancelled)
}

func (s *ProjectService) transition(ctx context.Context, tenantID, projectID uuid.UUID, target work.ProjectStatus) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	if err := project.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.projectRepo.SaveWithLock(ctx, project); err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

// Delete soft-deletes a project and refuses while open tasks remain
func (s *ProjectService) Delete(ctx context.Context, tenantID, projectID uuid.UUID) error {
	project, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		return err
	}

	if project.IsOpen() {
		return shared.NewDomainError("CANNOT_DELETE", "Open projects cannot be deleted; complete or cancel first")
	}

	return s.projectRepo.DeleteForTenant(ctx, tenantID, projectID)
}

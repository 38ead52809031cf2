package work

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Project, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Project, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Project, error)
	Save(ctx context.Context, project *Project) error
	SaveWithLock(ctx context.Context, project *Project) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Task, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID, filter shared.Filter) ([]Task, error)
	FindByAssignee(ctx context.Context, tenantID, assigneeID uuid.UUID, filter shared.Filter) ([]Task, error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]Task, error)
	Save(ctx context.Context, task *Task) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ScheduleEventRepository defines the interface for calendar persistence
type ScheduleEventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleEvent, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleEvent, error)
	// FindInRange finds events overlapping the [from, to) window
	FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]ScheduleEvent, error)
	FindByAssignee(ctx context.Context, tenantID, assigneeID uuid.UUID, from, to time.Time) ([]ScheduleEvent, error)
	Save(ctx context.Context, event *ScheduleEvent) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

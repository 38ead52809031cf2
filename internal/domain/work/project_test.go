package work

import (
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	project, err := NewProject(uuid.New(), uuid.New(), "PRJ-001", "Kitchen remodel")
	require.NoError(t, err)
	return project
}

func TestNewProject(t *testing.T) {
	t.Run("starts as draft", func(t *testing.T) {
		project := newTestProject(t)

		assert.Equal(t, ProjectStatusDraft, project.Status)
		assert.True(t, project.IsOpen())
		assert.True(t, project.Budget.IsZero())
	})

	t.Run("requires number and name", func(t *testing.T) {
		_, err := NewProject(uuid.New(), uuid.New(), "", "Kitchen remodel")
		assert.Error(t, err)

		_, err = NewProject(uuid.New(), uuid.New(), "PRJ-001", "")
		assert.Error(t, err)
	})
}

func TestProjectTransitions(t *testing.T) {
	t.Run("draft to active to completed", func(t *testing.T) {
		project := newTestProject(t)

		require.NoError(t, project.Activate())
		assert.Equal(t, ProjectStatusActive, project.Status)

		require.NoError(t, project.Complete())
		assert.Equal(t, ProjectStatusCompleted, project.Status)
		assert.NotNil(t, project.CompletedAt)
		assert.False(t, project.IsOpen())
	})

	t.Run("hold and resume", func(t *testing.T) {
		project := newTestProject(t)
		require.NoError(t, project.Activate())

		require.NoError(t, project.TransitionTo(ProjectStatusOnHold))
		assert.True(t, project.IsOpen())
		require.NoError(t, project.Activate())
		assert.Equal(t, ProjectStatusActive, project.Status)
	})

	t.Run("draft cannot complete directly", func(t *testing.T) {
		project := newTestProject(t)

		err := project.Complete()

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})

	t.Run("completed projects are terminal", func(t *testing.T) {
		project := newTestProject(t)
		require.NoError(t, project.Activate())
		require.NoError(t, project.Complete())

		assert.Error(t, project.Activate())
		assert.Error(t, project.Cancel())
	})

	t.Run("cancel allowed from draft", func(t *testing.T) {
		project := newTestProject(t)

		require.NoError(t, project.Cancel())
		assert.Equal(t, ProjectStatusCancelled, project.Status)
	})

	t.Run("same-status transition is rejected", func(t *testing.T) {
		project := newTestProject(t)

		assert.Error(t, project.TransitionTo(ProjectStatusDraft))
	})
}

func TestProjectSetters(t *testing.T) {
	project := newTestProject(t)

	t.Run("budget cannot be negative", func(t *testing.T) {
		assert.Error(t, project.SetBudget(decimal.NewFromInt(-100)))
		require.NoError(t, project.SetBudget(decimal.NewFromInt(25000)))
	})

	t.Run("end date cannot precede start", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)

		assert.Error(t, project.SetDates(&start, &end))

		end = start.Add(30 * 24 * time.Hour)
		require.NoError(t, project.SetDates(&start, &end))
	})
}

func TestTaskLifecycle(t *testing.T) {
	newTodo := func(t *testing.T) *Task {
		task, err := NewTask(uuid.New(), "Replace condenser fan")
		require.NoError(t, err)
		return task
	}

	t.Run("starts as medium-priority todo", func(t *testing.T) {
		task := newTodo(t)

		assert.Equal(t, TaskStatusTodo, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
	})

	t.Run("start then complete", func(t *testing.T) {
		task := newTodo(t)

		require.NoError(t, task.Start())
		assert.Equal(t, TaskStatusInProgress, task.Status)

		require.NoError(t, task.Complete())
		assert.Equal(t, TaskStatusDone, task.Status)
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("complete straight from todo", func(t *testing.T) {
		task := newTodo(t)

		require.NoError(t, task.Complete())
	})

	t.Run("reopen clears completion", func(t *testing.T) {
		task := newTodo(t)
		require.NoError(t, task.Complete())

		require.NoError(t, task.Reopen())

		assert.Equal(t, TaskStatusTodo, task.Status)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("cancelled tasks cannot complete", func(t *testing.T) {
		task := newTodo(t)
		require.NoError(t, task.Cancel())

		assert.Error(t, task.Complete())
		assert.Error(t, task.Cancel())
	})

	t.Run("assign and unassign", func(t *testing.T) {
		task := newTodo(t)
		userID := uuid.New()

		task.Assign(userID)
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, userID, *task.AssigneeID)

		task.Unassign()
		assert.Nil(t, task.AssigneeID)
	})

	t.Run("overdue only while open", func(t *testing.T) {
		task := newTodo(t)
		past := time.Now().Add(-time.Hour)
		task.SetDueDate(&past)

		assert.True(t, task.IsOverdue(time.Now()))

		require.NoError(t, task.Complete())
		assert.False(t, task.IsOverdue(time.Now()))
	})
}

func TestScheduleEvent(t *testing.T) {
	start := time.Now().Truncate(time.Minute)
	end := start.Add(2 * time.Hour)

	t.Run("end must be after start", func(t *testing.T) {
		_, err := NewScheduleEvent(uuid.New(), "Site visit", end, start)
		assert.Error(t, err)

		_, err = NewScheduleEvent(uuid.New(), "Site visit", start, start)
		assert.Error(t, err)
	})

	t.Run("reschedule validates window", func(t *testing.T) {
		event, err := NewScheduleEvent(uuid.New(), "Site visit", start, end)
		require.NoError(t, err)

		assert.Error(t, event.Reschedule(end, start))
		require.NoError(t, event.Reschedule(start.Add(time.Hour), end.Add(time.Hour)))
	})

	t.Run("overlap detection", func(t *testing.T) {
		event, err := NewScheduleEvent(uuid.New(), "Site visit", start, end)
		require.NoError(t, err)

		assert.True(t, event.Overlaps(start.Add(time.Hour), end.Add(time.Hour)))
		assert.True(t, event.Overlaps(start.Add(-time.Hour), start.Add(time.Minute)))
		assert.False(t, event.Overlaps(end, end.Add(time.Hour)))
		assert.False(t, event.Overlaps(start.Add(-2*time.Hour), start))
	})
}

package handler

import (
	"context"

	workapp "github.com/fieldops/backend/internal/application/work"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	taskService *workapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *workapp.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// AssignTaskRequest names the user a task is assigned to
type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// Create creates a new task
func (h *TaskHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req workapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.taskService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a task by ID
func (h *TaskHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	taskID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.taskService.GetByID(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves tasks with filtering and pagination
func (h *TaskHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter workapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tasks, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// ListOverdue retrieves open tasks whose due date has passed
func (h *TaskHandler) ListOverdue(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter workapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	tasks, err := h.taskService.ListOverdue(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tasks)
}

// Update updates a task
func (h *TaskHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	taskID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req workapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.taskService.Update(c.Request.Context(), tenantID, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Assign assigns the task to a user
func (h *TaskHandler) Assign(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	taskID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.taskService.Assign(c.Request.Context(), tenantID, taskID, req.AssigneeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Unassign clears the task's assignee
func (h *TaskHandler) Unassign(c *gin.Context) {
	h.statusChange(c, h.taskService.Unassign)
}

// Start moves a task to in progress
func (h *TaskHandler) Start(c *gin.Context) {
	h.statusChange(c, h.taskService.Start)
}

// Complete marks a task as done
func (h *TaskHandler) Complete(c *gin.Context) {
	h.statusChange(c, h.taskService.Complete)
}

// Reopen reopens a done or cancelled task
func (h *TaskHandler) Reopen(c *gin.Context) {
	h.statusChange(c, h.taskService.Reopen)
}

// Cancel cancels a task
func (h *TaskHandler) Cancel(c *gin.Context) {
	h.statusChange(c, h.taskService.Cancel)
}

func (h *TaskHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*workapp.TaskResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	taskID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	taskID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), tenantID, taskID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

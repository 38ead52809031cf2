package handler

import (
	"context"

	workapp "github.com/fieldops/backend/internal/application/work"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *workapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *workapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create creates a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req workapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.projectService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a project by ID
func (h *ProjectHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.projectService.GetByID(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves projects with filtering and pagination
func (h *ProjectHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter workapp.ProjectListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	projects, total, err := h.projectService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, projects, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// Update updates a project
func (h *ProjectHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req workapp.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.projectService.Update(c.Request.Context(), tenantID, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate transitions a project to active
func (h *ProjectHandler) Activate(c *gin.Context) {
	h.statusChange(c, h.projectService.Activate)
}

// Hold puts a project on hold
func (h *ProjectHandler) Hold(c *gin.Context) {
	h.statusChange(c, h.projectService.Hold)
}

// Complete marks a project as completed
func (h *ProjectHandler) Complete(c *gin.Context) {
	h.statusChange(c, h.projectService.Complete)
}

// Cancel cancels a project
func (h *ProjectHandler) Cancel(c *gin.Context) {
	h.statusChange(c, h.projectService.Cancel)
}

func (h *ProjectHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*workapp.ProjectResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes a closed project
func (h *ProjectHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), tenantID, projectID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

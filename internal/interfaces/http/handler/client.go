package handler

import (
	"context"

	directoryapp "github.com/fieldops/backend/internal/application/directory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler handles client directory endpoints
type ClientHandler struct {
	BaseHandler
	clientService *directoryapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *directoryapp.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create creates a new client
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req directoryapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.clientService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a client by ID
func (h *ClientHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.clientService.GetByID(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves clients with filtering and pagination
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter directoryapp.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, clients, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// Update updates a client
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req directoryapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.clientService.Update(c.Request.Context(), tenantID, clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate marks a client as active
func (h *ClientHandler) Activate(c *gin.Context) {
	h.statusChange(c, h.clientService.Activate)
}

// Deactivate marks a client as inactive
func (h *ClientHandler) Deactivate(c *gin.Context) {
	h.statusChange(c, h.clientService.Deactivate)
}

// Archive archives a client
func (h *ClientHandler) Archive(c *gin.Context) {
	h.statusChange(c, h.clientService.Archive)
}

// Restore restores an archived client
func (h *ClientHandler) Restore(c *gin.Context) {
	h.statusChange(c, h.clientService.Restore)
}

func (h *ClientHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*directoryapp.ClientResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes an archived client
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), tenantID, clientID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func pageOrDefault(page int) int {
	if page == 0 {
		return 1
	}
	return page
}

func pageSizeOrDefault(pageSize int) int {
	if pageSize == 0 {
		return 20
	}
	return pageSize
}

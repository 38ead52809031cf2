package handler

import (
	"context"

	directoryapp "github.com/fieldops/backend/internal/application/directory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler handles client contact endpoints
type ContactHandler struct {
	BaseHandler
	contactService *directoryapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *directoryapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create creates a contact under the client in the path
func (h *ContactHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req directoryapp.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.contactService.Create(c.Request.Context(), tenantID, clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListByClient retrieves the contacts of the client in the path
func (h *ContactHandler) ListByClient(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}

	var filter directoryapp.ContactListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	contacts, err := h.contactService.ListByClient(c.Request.Context(), tenantID, clientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contacts)
}

// Get retrieves a contact by ID
func (h *ContactHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	contactID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.contactService.GetByID(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a contact
func (h *ContactHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	contactID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req directoryapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.contactService.Update(c.Request.Context(), tenantID, contactID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GrantPortalAccess allows the contact to sign in to the client portal
func (h *ContactHandler) GrantPortalAccess(c *gin.Context) {
	h.accessChange(c, h.contactService.GrantPortalAccess)
}

// RevokePortalAccess revokes the contact's portal access
func (h *ContactHandler) RevokePortalAccess(c *gin.Context) {
	h.accessChange(c, h.contactService.RevokePortalAccess)
}

func (h *ContactHandler) accessChange(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*directoryapp.ContactResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	contactID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete soft-deletes a contact
func (h *ContactHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	contactID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), tenantID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	portalapp "github.com/fieldops/backend/internal/application/portal"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles the staff side of portal message threads
type MessageHandler struct {
	BaseHandler
	portalService *portalapp.PortalService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(portalService *portalapp.PortalService) *MessageHandler {
	return &MessageHandler{portalService: portalService}
}

// Reply appends a staff message to the client thread in the path
func (h *MessageHandler) Reply(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	clientID, ok := h.requireID(c)
	if !ok {
		return
	}
	staffID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return
	}

	var req portalapp.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.portalService.StaffReply(c.Request.Context(), tenantID, clientID, staffID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

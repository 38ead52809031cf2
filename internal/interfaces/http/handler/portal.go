package handler

import (
	"context"
	"net/http"

	billingapp "github.com/fieldops/backend/internal/application/billing"
	portalapp "github.com/fieldops/backend/internal/application/portal"
	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalHandler handles the client-portal endpoints
type PortalHandler struct {
	BaseHandler
	portalService *portalapp.PortalService
	cfg           config.PortalConfig
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(portalService *portalapp.PortalService, cfg config.PortalConfig) *PortalHandler {
	return &PortalHandler{portalService: portalService, cfg: cfg}
}

// Login mints a portal session and sets the session cookie. The tenant
// comes from the X-Tenant-ID header, matching the staff login flow.
func (h *PortalHandler) Login(c *gin.Context) {
	tenantID, err := uuid.Parse(c.GetHeader("X-Tenant-ID"))
	if err != nil {
		h.BadRequest(c, "Missing or invalid X-Tenant-ID header")
		return
	}

	var req portalapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.portalService.Login(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.CookieName, resp.Token, int(h.cfg.SessionTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	h.Success(c, resp)
}

// Logout deletes the session and clears the cookie
func (h *PortalHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.CookieName); err == nil && token != "" {
		if err := h.portalService.Logout(c.Request.Context(), token); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	h.NoContent(c)
}

// requireSession returns the session stored by the portal auth middleware
func (h *PortalHandler) requireSession(c *gin.Context) (*portal.Session, bool) {
	session, ok := middleware.GetPortalSession(c)
	if !ok {
		h.Unauthorized(c, "Portal session is invalid or expired")
		return nil, false
	}
	return session, true
}

// ListEstimates retrieves the signed-in client's estimates
func (h *PortalHandler) ListEstimates(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	var filter portalapp.MessageListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	estimates, err := h.portalService.ListEstimates(c.Request.Context(), session, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, estimates)
}

// GetEstimate retrieves one of the client's estimates
func (h *PortalHandler) GetEstimate(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.portalService.GetEstimate(c.Request.Context(), session, estimateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AcceptEstimate accepts a sent estimate
func (h *PortalHandler) AcceptEstimate(c *gin.Context) {
	h.estimateDecision(c, h.portalService.AcceptEstimate)
}

// DeclineEstimate declines a sent estimate
func (h *PortalHandler) DeclineEstimate(c *gin.Context) {
	h.estimateDecision(c, h.portalService.DeclineEstimate)
}

func (h *PortalHandler) estimateDecision(c *gin.Context, op func(context.Context, *portal.Session, uuid.UUID) (*billingapp.EstimateResponse, error)) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), session, estimateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListInvoices retrieves the signed-in client's invoices
func (h *PortalHandler) ListInvoices(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	var filter portalapp.MessageListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	invoices, err := h.portalService.ListInvoices(c.Request.Context(), session, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// GetInvoice retrieves one of the client's invoices
func (h *PortalHandler) GetInvoice(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}
	invoiceID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.portalService.GetInvoice(c.Request.Context(), session, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListMessages retrieves the client's message thread
func (h *PortalHandler) ListMessages(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	var filter portalapp.MessageListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	messages, err := h.portalService.ListMessages(c.Request.Context(), session, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, messages)
}

// PostMessage appends a message to the client's thread
func (h *PortalHandler) PostMessage(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	var req portalapp.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.portalService.PostMessage(c.Request.Context(), session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// MarkMessageRead records that the contact read a staff message
func (h *PortalHandler) MarkMessageRead(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}
	messageID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.portalService.MarkMessageRead(c.Request.Context(), session, messageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UnreadCount counts staff messages the client has not read yet
func (h *PortalHandler) UnreadCount(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	count, err := h.portalService.CountUnread(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}

package handler

import (
	"context"

	billingapp "github.com/fieldops/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EstimateHandler handles estimate endpoints
type EstimateHandler struct {
	BaseHandler
	estimateService *billingapp.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler
func NewEstimateHandler(estimateService *billingapp.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

// Create creates a draft estimate with a freshly issued number
func (h *EstimateHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req billingapp.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.estimateService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves an estimate with its line items
func (h *EstimateHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.estimateService.GetByID(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves estimates with filtering and pagination
func (h *EstimateHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter billingapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	estimates, total, err := h.estimateService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, estimates, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// Update updates a draft estimate
func (h *EstimateHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req billingapp.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.estimateService.Update(c.Request.Context(), tenantID, estimateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Send marks an estimate as sent to the client
func (h *EstimateHandler) Send(c *gin.Context) {
	h.statusChange(c, h.estimateService.Send)
}

// Accept accepts a sent estimate
func (h *EstimateHandler) Accept(c *gin.Context) {
	h.statusChange(c, h.estimateService.Accept)
}

// Decline declines a sent estimate
func (h *EstimateHandler) Decline(c *gin.Context) {
	h.statusChange(c, h.estimateService.Decline)
}

func (h *EstimateHandler) statusChange(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*billingapp.EstimateResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConvertToInvoice creates an invoice from an accepted estimate
func (h *EstimateHandler) ConvertToInvoice(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.estimateService.ConvertToInvoice(c.Request.Context(), tenantID, estimateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ExpireStale marks sent estimates past their expiry date as expired
func (h *EstimateHandler) ExpireStale(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	count, err := h.estimateService.ExpireStale(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"expired": count})
}

// Delete soft-deletes a draft estimate
func (h *EstimateHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.estimateService.Delete(c.Request.Context(), tenantID, estimateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"context"
	"time"

	pipelineapp "github.com/fieldops/backend/internal/application/pipeline"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OpportunityHandler handles sales pipeline endpoints
type OpportunityHandler struct {
	BaseHandler
	opportunityService *pipelineapp.OpportunityService
	activityService    *pipelineapp.ActivityService
	followUpService    *pipelineapp.FollowUpService
}

// NewOpportunityHandler creates a new OpportunityHandler
func NewOpportunityHandler(
	opportunityService *pipelineapp.OpportunityService,
	activityService *pipelineapp.ActivityService,
	followUpService *pipelineapp.FollowUpService,
) *OpportunityHandler {
	return &OpportunityHandler{
		opportunityService: opportunityService,
		activityService:    activityService,
		followUpService:    followUpService,
	}
}

// Create creates a new opportunity in the lead stage
func (h *OpportunityHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req pipelineapp.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.opportunityService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves an opportunity by ID
func (h *OpportunityHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.opportunityService.GetByID(c.Request.Context(), tenantID, opportunityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves opportunities with filtering and pagination
func (h *OpportunityHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter pipelineapp.OpportunityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	opportunities, total, err := h.opportunityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, opportunities, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// Update updates an open opportunity
func (h *OpportunityHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req pipelineapp.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.opportunityService.Update(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AdvanceStage moves an opportunity forward through the pipeline
func (h *OpportunityHandler) AdvanceStage(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req pipelineapp.AdvanceStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	changedBy := actorID(c)
	resp, err := h.opportunityService.AdvanceStage(c.Request.Context(), tenantID, opportunityID, req, changedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkWon closes an opportunity as won
func (h *OpportunityHandler) MarkWon(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.opportunityService.MarkWon(c.Request.Context(), tenantID, opportunityID, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkLost closes an opportunity as lost with a reason
func (h *OpportunityHandler) MarkLost(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req pipelineapp.MarkLostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.opportunityService.MarkLost(c.Request.Context(), tenantID, opportunityID, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetHistory retrieves the stage transition history of an opportunity
func (h *OpportunityHandler) GetHistory(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	history, err := h.opportunityService.GetHistory(c.Request.Context(), tenantID, opportunityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// Delete soft-deletes a closed opportunity
func (h *OpportunityHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.opportunityService.Delete(c.Request.Context(), tenantID, opportunityID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LogActivity records an interaction against the opportunity in the path
func (h *OpportunityHandler) LogActivity(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req pipelineapp.LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.activityService.Log(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListActivities retrieves the activities logged against the opportunity
func (h *OpportunityHandler) ListActivities(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	var filter pipelineapp.OpportunityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	activities, total, err := h.activityService.List(c.Request.Context(), tenantID, opportunityID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, activities, total, pageOrDefault(filter.Page), pageSizeOrDefault(filter.PageSize))
}

// CreateFollowUp schedules a follow-up on the opportunity in the path
func (h *OpportunityHandler) CreateFollowUp(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req pipelineapp.CreateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.followUpService.Create(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListFollowUps retrieves the follow-ups scheduled on the opportunity
func (h *OpportunityHandler) ListFollowUps(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	opportunityID, ok := h.requireID(c)
	if !ok {
		return
	}

	followUps, err := h.followUpService.List(c.Request.Context(), tenantID, opportunityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, followUps)
}

// ListDueFollowUps retrieves pending follow-ups due before the cutoff
// query parameter (default: now)
func (h *OpportunityHandler) ListDueFollowUps(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	cutoff := time.Now()
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid before parameter, expected RFC 3339 timestamp")
			return
		}
		cutoff = parsed
	}

	var filter pipelineapp.OpportunityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	followUps, err := h.followUpService.ListDue(c.Request.Context(), tenantID, cutoff, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, followUps)
}

// RescheduleFollowUp moves a pending follow-up to a new due time
func (h *OpportunityHandler) RescheduleFollowUp(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	followUpID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req pipelineapp.RescheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.followUpService.Reschedule(c.Request.Context(), tenantID, followUpID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CompleteFollowUp marks a follow-up as done
func (h *OpportunityHandler) CompleteFollowUp(c *gin.Context) {
	h.followUpChange(c, h.followUpService.Complete)
}

// CancelFollowUp cancels a pending follow-up
func (h *OpportunityHandler) CancelFollowUp(c *gin.Context) {
	h.followUpChange(c, h.followUpService.Cancel)
}

func (h *OpportunityHandler) followUpChange(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*pipelineapp.FollowUpResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	followUpID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := op(c.Request.Context(), tenantID, followUpID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// actorID returns the acting user's ID for audit fields, nil when the
// claims are unreadable
func actorID(c *gin.Context) *uuid.UUID {
	userID, err := getUserID(c)
	if err != nil {
		return nil
	}
	return &userID
}

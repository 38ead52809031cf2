package handler

import (
	workapp "github.com/fieldops/backend/internal/application/work"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles calendar endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *workapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *workapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Create creates a calendar event
func (h *ScheduleHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req workapp.CreateScheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.scheduleService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves an event by ID
func (h *ScheduleHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	eventID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.scheduleService.GetByID(c.Request.Context(), tenantID, eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListRange retrieves events overlapping the requested window
func (h *ScheduleHandler) ListRange(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter workapp.ScheduleRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	events, err := h.scheduleService.ListRange(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// Update updates or reschedules an event
func (h *ScheduleHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	eventID, ok := h.requireID(c)
	if !ok {
		return
	}

	var req workapp.UpdateScheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.scheduleService.Update(c.Request.Context(), tenantID, eventID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an event
func (h *ScheduleHandler) Delete(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	eventID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), tenantID, eventID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	legacyapp "github.com/fieldops/backend/internal/application/legacy"
	"github.com/gin-gonic/gin"
)

// ImportHandler exposes the one-off legacy data import endpoints
type ImportHandler struct {
	BaseHandler
	importService *legacyapp.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *legacyapp.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportClients pulls every client record from the legacy store. Reruns
// are safe: records already imported are counted as skipped.
func (h *ImportHandler) ImportClients(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	result, err := h.importService.ImportClients(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ImportInvoices pulls every invoice record from the legacy store.
// Clients must be imported first so invoice owners resolve.
func (h *ImportHandler) ImportInvoices(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	result, err := h.importService.ImportInvoices(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

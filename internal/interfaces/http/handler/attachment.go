package handler

import (
	"context"
	"io"

	billingapp "github.com/fieldops/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttachmentHandler handles estimate and invoice attachment endpoints
type AttachmentHandler struct {
	BaseHandler
	attachmentService *billingapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *billingapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// UploadForEstimate stores a multipart file upload against an estimate
func (h *AttachmentHandler) UploadForEstimate(c *gin.Context) {
	h.upload(c, h.attachmentService.UploadEstimateAttachment)
}

// UploadForInvoice stores a multipart file upload against an invoice
func (h *AttachmentHandler) UploadForInvoice(c *gin.Context) {
	h.upload(c, h.attachmentService.UploadInvoiceAttachment)
}

// DownloadForEstimate returns a presigned URL for an estimate attachment
func (h *AttachmentHandler) DownloadForEstimate(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.attachmentService.EstimateAttachmentURL(c.Request.Context(), tenantID, estimateID, c.Param("filename"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DownloadForInvoice returns a presigned URL for an invoice attachment
func (h *AttachmentHandler) DownloadForInvoice(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.attachmentService.InvoiceAttachmentURL(c.Request.Context(), tenantID, invoiceID, c.Param("filename"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteForEstimate removes an estimate attachment
func (h *AttachmentHandler) DeleteForEstimate(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	estimateID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.attachmentService.DeleteEstimateAttachment(c.Request.Context(), tenantID, estimateID, c.Param("filename")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteForInvoice removes an invoice attachment
func (h *AttachmentHandler) DeleteForInvoice(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.attachmentService.DeleteInvoiceAttachment(c.Request.Context(), tenantID, invoiceID, c.Param("filename")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *AttachmentHandler) upload(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID, string, string, io.Reader) (*billingapp.AttachmentResponse, error)) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	docID, ok := h.requireID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing 'file' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	resp, err := op(c.Request.Context(), tenantID, docID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

package handler

import (
	"errors"
	"io"
	"net/http"

	billingapp "github.com/fieldops/backend/internal/application/billing"
	"github.com/fieldops/backend/internal/infrastructure/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxWebhookBody caps webhook payload reads
const maxWebhookBody = 1 << 16

// WebhookHandler handles payment processor webhook deliveries
type WebhookHandler struct {
	BaseHandler
	webhookService *billingapp.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *billingapp.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleStripe verifies and processes a Stripe webhook delivery. The
// tenant is carried in the endpoint path since Stripe sends no auth
// headers of ours.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID in path")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.webhookService.HandleEvent(c.Request.Context(), tenantID, payload, signature); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.BadRequest(c, "Invalid webhook signature")
			return
		}
		h.HandleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

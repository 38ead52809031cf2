package billing

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/infrastructure/payment"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// WebhookService turns payment processor events into recorded payments
type WebhookService struct {
	verifier       *payment.WebhookVerifier
	invoiceService *InvoiceService
	logger         *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(verifier *payment.WebhookVerifier, invoiceService *InvoiceService, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		verifier:       verifier,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// HandleEvent verifies the payload and processes the event. Unknown event
// types are acknowledged and skipped so the processor does not retry them.
func (s *WebhookService) HandleEvent(ctx context.Context, tenantID uuid.UUID, payload []byte, signatureHeader string) error {
	event, err := s.verifier.VerifyAndParse(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return s.handlePaymentSucceeded(ctx, tenantID, event)
	default:
		s.logger.Debug("Ignoring webhook event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
		)
		return nil
	}
}

func (s *WebhookService) handlePaymentSucceeded(ctx context.Context, tenantID uuid.UUID, event *stripe.Event) error {
	notification, err := payment.DecodePaymentSucceeded(event)
	if err != nil {
		if errors.Is(err, payment.ErrMissingMetadata) {
			// Not one of our payment intents; acknowledge without recording.
			s.logger.Warn("Payment event without invoice metadata",
				zap.String("event_id", event.ID),
			)
			return nil
		}
		return err
	}

	invoiceID, err := uuid.Parse(notification.InvoiceID)
	if err != nil {
		s.logger.Warn("Payment event with malformed invoice ID",
			zap.String("event_id", event.ID),
			zap.String("invoice_id", notification.InvoiceID),
		)
		return nil
	}

	// The processor reference makes retried deliveries idempotent.
	_, err = s.invoiceService.RecordPayment(ctx, tenantID, invoiceID, RecordPaymentRequest{
		Amount:    notification.Amount,
		Method:    "card",
		Reference: notification.Reference,
	})
	if err != nil {
		return err
	}

	s.logger.Info("Payment recorded from webhook",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("reference", notification.Reference),
		zap.String("amount", notification.Amount.String()),
	)
	return nil
}

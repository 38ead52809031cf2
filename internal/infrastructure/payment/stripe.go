package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Errors returned while processing webhook payloads
var (
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrMissingMetadata  = errors.New("payment: event is missing invoice metadata")
)

// invoiceIDMetadataKey is the metadata key carrying our invoice ID on
// the payment intent
const invoiceIDMetadataKey = "invoice_id"

// PaymentNotification is the decoded result of a successful payment
// event: which invoice was paid, how much, and the processor reference
// used for idempotency.
type PaymentNotification struct {
	InvoiceID string
	Amount    decimal.Decimal
	Currency  string
	Reference string
}

// WebhookVerifier verifies and decodes Stripe webhook payloads
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier with the endpoint signing secret
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// VerifyAndParse checks the payload signature and returns the event.
// Returns ErrInvalidSignature when verification fails.
func (v *WebhookVerifier) VerifyAndParse(payload []byte, signatureHeader string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &event, nil
}

// DecodePaymentSucceeded extracts a payment notification from a
// payment_intent.succeeded event. The amount arrives in the smallest
// currency unit and is converted to a decimal major-unit amount.
func DecodePaymentSucceeded(event *stripe.Event) (*PaymentNotification, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("payment: failed to decode payment intent: %w", err)
	}

	invoiceID := intent.Metadata[invoiceIDMetadataKey]
	if invoiceID == "" {
		return nil, ErrMissingMetadata
	}

	return &PaymentNotification{
		InvoiceID: invoiceID,
		Amount:    decimal.NewFromInt(intent.Amount).Div(decimal.NewFromInt(100)),
		Currency:  string(intent.Currency),
		Reference: intent.ID,
	}, nil
}

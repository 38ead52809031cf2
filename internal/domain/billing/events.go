package billing

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names for the billing context
const (
	EventTypeEstimateCreated  = "billing.estimate.created"
	EventTypeEstimateSent     = "billing.estimate.sent"
	EventTypeEstimateAccepted = "billing.estimate.accepted"
	EventTypeEstimateDeclined = "billing.estimate.declined"
	EventTypeInvoiceCreated   = "billing.invoice.created"
	EventTypeInvoiceSent      = "billing.invoice.sent"
	EventTypeInvoicePaid      = "billing.invoice.paid"
	EventTypeInvoiceVoided    = "billing.invoice.voided"
	EventTypePaymentRecorded  = "billing.payment.recorded"
)

// EstimateCreatedEvent is emitted when an estimate is created
type EstimateCreatedEvent struct {
	shared.BaseDomainEvent
	Number string
}

// NewEstimateCreatedEvent creates a new EstimateCreatedEvent
func NewEstimateCreatedEvent(e *Estimate) EstimateCreatedEvent {
	return EstimateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateCreated, e.ID, e.TenantID),
		Number:          e.Number,
	}
}

// EstimateSentEvent is emitted when an estimate is sent to the client
type EstimateSentEvent struct {
	shared.BaseDomainEvent
	Number string
	Total  decimal.Decimal
}

// NewEstimateSentEvent creates a new EstimateSentEvent
func NewEstimateSentEvent(e *Estimate) EstimateSentEvent {
	return EstimateSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateSent, e.ID, e.TenantID),
		Number:          e.Number,
		Total:           e.Total,
	}
}

// EstimateAcceptedEvent is emitted when the client accepts an estimate
type EstimateAcceptedEvent struct {
	shared.BaseDomainEvent
	Number string
}

// NewEstimateAcceptedEvent creates a new EstimateAcceptedEvent
func NewEstimateAcceptedEvent(e *Estimate) EstimateAcceptedEvent {
	return EstimateAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateAccepted, e.ID, e.TenantID),
		Number:          e.Number,
	}
}

// EstimateDeclinedEvent is emitted when the client declines an estimate
type EstimateDeclinedEvent struct {
	shared.BaseDomainEvent
	Number string
}

// NewEstimateDeclinedEvent creates a new EstimateDeclinedEvent
func NewEstimateDeclinedEvent(e *Estimate) EstimateDeclinedEvent {
	return EstimateDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateDeclined, e.ID, e.TenantID),
		Number:          e.Number,
	}
}

// InvoiceCreatedEvent is emitted when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number string
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) InvoiceCreatedEvent {
	return InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, inv.ID, inv.TenantID),
		Number:          inv.Number,
	}
}

// InvoiceSentEvent is emitted when an invoice is issued
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	Number string
	Total  decimal.Decimal
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) InvoiceSentEvent {
	return InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, inv.ID, inv.TenantID),
		Number:          inv.Number,
		Total:           inv.Total,
	}
}

// InvoicePaidEvent is emitted when the balance reaches zero
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number string
	Total  decimal.Decimal
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) InvoicePaidEvent {
	return InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, inv.ID, inv.TenantID),
		Number:          inv.Number,
		Total:           inv.Total,
	}
}

// InvoiceVoidedEvent is emitted when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	Number string
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice) InvoiceVoidedEvent {
	return InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, inv.ID, inv.TenantID),
		Number:          inv.Number,
	}
}

// PaymentRecordedEvent is emitted when a payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal
	Method PaymentMethod
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) PaymentRecordedEvent {
	return PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, p.ID, p.TenantID),
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

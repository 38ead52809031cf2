package billing

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

// Payment represents money received against an invoice. Payments are
// immutable once recorded; corrections go through the invoice.
type Payment struct {
	shared.TenantAggregateRoot
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null"`
	ReceivedOn time.Time       `gorm:"not null"`
	// Reference is the payment-processor identifier; used for webhook
	// idempotency when set.
	Reference string `gorm:"type:varchar(200);index"`
	Notes     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment record
func NewPayment(tenantID, invoiceID uuid.UUID, amount decimal.Decimal, method PaymentMethod, receivedOn time.Time) (*Payment, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if err := validatePaymentMethod(method); err != nil {
		return nil, err
	}
	if receivedOn.IsZero() {
		receivedOn = time.Now()
	}

	payment := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceID:           invoiceID,
		Amount:              amount,
		Method:              method,
		ReceivedOn:          receivedOn,
	}

	payment.AddDomainEvent(NewPaymentRecordedEvent(payment))

	return payment, nil
}

// SetReference sets the external processor reference
func (p *Payment) SetReference(ref string) error {
	if len(ref) > 200 {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 200 characters")
	}
	p.Reference = ref
	return nil
}

// SetNotes sets free-form notes
func (p *Payment) SetNotes(notes string) {
	p.Notes = notes
}

func validatePaymentMethod(m PaymentMethod) error {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheck, PaymentMethodOther:
		return nil
	default:
		return shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
}

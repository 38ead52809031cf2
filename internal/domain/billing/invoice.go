package billing

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// lineItemDocumentInvoice is the polymorphic discriminator for invoice items
const lineItemDocumentInvoice = "invoice"

// Invoice represents a billing document. The balance invariant
// (balance = total - amount paid) is maintained here rather than by
// database triggers; ApplyPayment is the only way to reduce the balance.
type Invoice struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProjectID  *uuid.UUID      `gorm:"type:uuid;index"`
	EstimateID *uuid.UUID      `gorm:"type:uuid;index"`
	Status     InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	IssueDate  time.Time       `gorm:"not null"`
	DueDate    *time.Time      `gorm:"index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // percent
	TaxAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes      string          `gorm:"type:text"`
	Items      []LineItem      `gorm:"polymorphic:Document;polymorphicValue:invoice"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in draft status
func NewInvoice(tenantID, clientID uuid.UUID, number string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}

	invoice := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ClientID:            clientID,
		Status:              InvoiceStatusDraft,
		IssueDate:           time.Now(),
		Subtotal:            decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		AmountPaid:          decimal.Zero,
		Balance:             decimal.Zero,
		Items:               make([]LineItem, 0),
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddItem appends a line item. Only draft invoices can be edited.
func (inv *Invoice) AddItem(description string, quantity, unitPrice decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	item, err := NewLineItem(description, quantity, unitPrice)
	if err != nil {
		return err
	}
	item.DocumentID = inv.ID
	item.DocumentType = lineItemDocumentInvoice
	item.Position = len(inv.Items)

	inv.Items = append(inv.Items, *item)
	inv.recalculate()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// UpdateItem updates the line item with the given ID
func (inv *Invoice) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			if err := inv.Items[i].Update(description, quantity, unitPrice); err != nil {
				return err
			}
			inv.recalculate()
			inv.UpdatedAt = time.Now()
			inv.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes the line item with the given ID
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			for j := range inv.Items {
				inv.Items[j].Position = j
			}
			inv.recalculate()
			inv.UpdatedAt = time.Now()
			inv.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetTaxRate sets the tax rate in percent and recomputes totals
func (inv *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	inv.TaxRate = rate
	inv.recalculate()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(due *time.Time) error {
	if due != nil && due.Before(inv.IssueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	inv.DueDate = due
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes shown on the document
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// Send issues the invoice to the client and freezes its line items
func (inv *Invoice) Send() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be sent")
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Invoice must have at least one line item")
	}

	inv.Status = InvoiceStatusSent
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// ApplyPayment reduces the outstanding balance. The payment must be
// positive and must not exceed the balance; the status follows the
// resulting balance.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if inv.Status == InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment against a draft invoice")
	}
	if inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment against a void invoice")
	}
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already fully paid")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.Balance) {
		return shared.ErrOverpayment
	}

	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.Balance = inv.Total.Sub(inv.AmountPaid)

	if inv.Balance.IsZero() {
		inv.Status = InvoiceStatusPaid
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// Void cancels an invoice that has no payments recorded against it
func (inv *Invoice) Void() error {
	if inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("ALREADY_VOID", "Invoice is already void")
	}
	if !inv.AmountPaid.IsZero() {
		return shared.NewDomainError("INVALID_STATE", "Cannot void an invoice with recorded payments")
	}

	inv.Status = InvoiceStatusVoid
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))

	return nil
}

// IsEditable returns true while the invoice is a draft
func (inv *Invoice) IsEditable() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsOutstanding returns true if the invoice still has a balance due
func (inv *Invoice) IsOutstanding() bool {
	return inv.Status == InvoiceStatusSent || inv.Status == InvoiceStatusPartiallyPaid
}

// IsOverdue returns true if the invoice is outstanding past its due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.IsOutstanding() && inv.DueDate != nil && inv.DueDate.Before(now)
}

// recalculate recomputes subtotal, tax, total, and balance from the items
func (inv *Invoice) recalculate() {
	inv.Subtotal = sumItems(inv.Items)
	inv.TaxAmount = inv.Subtotal.Mul(inv.TaxRate).Div(decimal.NewFromInt(100)).Round(4)
	inv.Total = inv.Subtotal.Add(inv.TaxAmount)
	inv.Balance = inv.Total.Sub(inv.AmountPaid)
}

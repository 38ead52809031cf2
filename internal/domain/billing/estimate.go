package billing

import (
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstimateStatus represents the lifecycle status of an estimate
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusDeclined EstimateStatus = "declined"
	EstimateStatusExpired  EstimateStatus = "expired"
)

// lineItemDocumentEstimate is the polymorphic discriminator for estimate items
const lineItemDocumentEstimate = "estimate"

// Estimate represents a quote sent to a client for approval
type Estimate struct {
	shared.TenantAggregateRoot
	shared.SoftDeletable
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_estimate_tenant_number,priority:2"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProjectID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status     EstimateStatus  `gorm:"type:varchar(20);not null;default:'draft'"`
	IssueDate  time.Time       `gorm:"not null"`
	ExpiryDate *time.Time
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // percent
	TaxAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes      string          `gorm:"type:text"`
	Items      []LineItem      `gorm:"polymorphic:Document;polymorphicValue:estimate"`
}

// TableName returns the table name for GORM
func (Estimate) TableName() string {
	return "estimates"
}

// NewEstimate creates a new estimate in draft status
func NewEstimate(tenantID, clientID uuid.UUID, number string) (*Estimate, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Estimate number cannot be empty")
	}

	estimate := &Estimate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ClientID:            clientID,
		Status:              EstimateStatusDraft,
		IssueDate:           time.Now(),
		Subtotal:            decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]LineItem, 0),
	}

	estimate.AddDomainEvent(NewEstimateCreatedEvent(estimate))

	return estimate, nil
}

// AddItem appends a line item. Only draft estimates can be edited.
func (e *Estimate) AddItem(description string, quantity, unitPrice decimal.Decimal) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}

	item, err := NewLineItem(description, quantity, unitPrice)
	if err != nil {
		return err
	}
	item.DocumentID = e.ID
	item.DocumentType = lineItemDocumentEstimate
	item.Position = len(e.Items)

	e.Items = append(e.Items, *item)
	e.recalculate()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// UpdateItem updates the line item with the given ID
func (e *Estimate) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}

	for i := range e.Items {
		if e.Items[i].ID == itemID {
			if err := e.Items[i].Update(description, quantity, unitPrice); err != nil {
				return err
			}
			e.recalculate()
			e.UpdatedAt = time.Now()
			e.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes the line item with the given ID
func (e *Estimate) RemoveItem(itemID uuid.UUID) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}

	for i := range e.Items {
		if e.Items[i].ID == itemID {
			e.Items = append(e.Items[:i], e.Items[i+1:]...)
			for j := range e.Items {
				e.Items[j].Position = j
			}
			e.recalculate()
			e.UpdatedAt = time.Now()
			e.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetTaxRate sets the tax rate in percent and recomputes totals
func (e *Estimate) SetTaxRate(rate decimal.Decimal) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	e.TaxRate = rate
	e.recalculate()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetExpiryDate sets when the estimate stops being valid
func (e *Estimate) SetExpiryDate(expiry *time.Time) error {
	if expiry != nil && expiry.Before(e.IssueDate) {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry date cannot be before issue date")
	}

	e.ExpiryDate = expiry
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes shown on the document
func (e *Estimate) SetNotes(notes string) {
	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// LinkProject links the estimate to a project
func (e *Estimate) LinkProject(projectID uuid.UUID) {
	e.ProjectID = &projectID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Send marks the estimate as sent to the client
func (e *Estimate) Send() error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be sent")
	}
	if len(e.Items) == 0 {
		return shared.NewDomainError("EMPTY_DOCUMENT", "Estimate must have at least one line item")
	}

	e.Status = EstimateStatusSent
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateSentEvent(e))

	return nil
}

// Accept records the client's acceptance
func (e *Estimate) Accept() error {
	if e.Status != EstimateStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent estimates can be accepted")
	}
	if e.isExpired(time.Now()) {
		return shared.NewDomainError("EXPIRED", "Estimate has expired")
	}

	e.Status = EstimateStatusAccepted
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateAcceptedEvent(e))

	return nil
}

// Decline records the client's rejection
func (e *Estimate) Decline() error {
	if e.Status != EstimateStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent estimates can be declined")
	}

	e.Status = EstimateStatusDeclined
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateDeclinedEvent(e))

	return nil
}

// MarkExpired transitions a sent estimate past its expiry date
func (e *Estimate) MarkExpired(now time.Time) error {
	if e.Status != EstimateStatusSent {
		return shared.ErrInvalidState
	}
	if !e.isExpired(now) {
		return shared.NewDomainError("NOT_EXPIRED", "Estimate has not reached its expiry date")
	}

	e.Status = EstimateStatusExpired
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// ConvertToInvoice builds a draft invoice from an accepted estimate,
// copying its line items and tax rate.
func (e *Estimate) ConvertToInvoice(invoiceNumber string) (*Invoice, error) {
	if e.Status != EstimateStatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted estimates can be converted to invoices")
	}

	invoice, err := NewInvoice(e.TenantID, e.ClientID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	invoice.ProjectID = e.ProjectID
	invoice.EstimateID = &e.ID

	for _, item := range e.Items {
		if err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	if !e.TaxRate.IsZero() {
		if err := invoice.SetTaxRate(e.TaxRate); err != nil {
			return nil, err
		}
	}

	return invoice, nil
}

// IsEditable returns true while the estimate is a draft
func (e *Estimate) IsEditable() bool {
	return e.Status == EstimateStatusDraft
}

func (e *Estimate) isExpired(now time.Time) bool {
	return e.ExpiryDate != nil && e.ExpiryDate.Before(now)
}

// recalculate recomputes subtotal, tax, and total from the line items
func (e *Estimate) recalculate() {
	e.Subtotal = sumItems(e.Items)
	e.TaxAmount = e.Subtotal.Mul(e.TaxRate).Div(decimal.NewFromInt(100)).Round(4)
	e.Total = e.Subtotal.Add(e.TaxAmount)
}

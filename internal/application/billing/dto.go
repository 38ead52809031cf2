package billing

import (
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Line item DTOs
// =============================================================================

// LineItemRequest represents one billable line in a create or update request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// LineItemResponse represents a billable line in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func toLineItemResponses(items []billing.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			ID:          item.ID,
			Position:    item.Position,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return responses
}

// =============================================================================
// Estimate DTOs
// =============================================================================

// CreateEstimateRequest represents a request to create an estimate
type CreateEstimateRequest struct {
	ClientID   uuid.UUID         `json:"client_id" binding:"required"`
	ProjectID  *uuid.UUID        `json:"project_id"`
	Items      []LineItemRequest `json:"items" binding:"dive"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
	ExpiryDate *time.Time        `json:"expiry_date"`
	Notes      string            `json:"notes"`
}

// UpdateEstimateRequest represents a request to update a draft estimate.
// Items, when present, replace the existing lines.
type UpdateEstimateRequest struct {
	Items      []LineItemRequest `json:"items" binding:"omitempty,dive"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
	ExpiryDate *time.Time        `json:"expiry_date"`
	Notes      *string           `json:"notes"`
}

// EstimateResponse represents an estimate in API responses
type EstimateResponse struct {
	ID         uuid.UUID          `json:"id"`
	Number     string             `json:"number"`
	ClientID   uuid.UUID          `json:"client_id"`
	ProjectID  *uuid.UUID         `json:"project_id,omitempty"`
	Status     string             `json:"status"`
	IssueDate  time.Time          `json:"issue_date"`
	ExpiryDate *time.Time         `json:"expiry_date,omitempty"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	TaxRate    decimal.Decimal    `json:"tax_rate"`
	TaxAmount  decimal.Decimal    `json:"tax_amount"`
	Total      decimal.Decimal    `json:"total"`
	Notes      string             `json:"notes"`
	Items      []LineItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Version    int                `json:"version"`
}

// DocumentListFilter represents filter options for estimate and invoice lists
type DocumentListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	ClientID *uuid.UUID `form:"client_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToEstimateResponse converts a domain Estimate to EstimateResponse
func ToEstimateResponse(e *billing.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:         e.ID,
		Number:     e.Number,
		ClientID:   e.ClientID,
		ProjectID:  e.ProjectID,
		Status:     string(e.Status),
		IssueDate:  e.IssueDate,
		ExpiryDate: e.ExpiryDate,
		Subtotal:   e.Subtotal,
		TaxRate:    e.TaxRate,
		TaxAmount:  e.TaxAmount,
		Total:      e.Total,
		Notes:      e.Notes,
		Items:      toLineItemResponses(e.Items),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		Version:    e.Version,
	}
}

// ToEstimateResponses converts domain Estimates to responses
func ToEstimateResponses(estimates []billing.Estimate) []EstimateResponse {
	responses := make([]EstimateResponse, len(estimates))
	for i := range estimates {
		responses[i] = ToEstimateResponse(&estimates[i])
	}
	return responses
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create an invoice directly,
// without going through an estimate
type CreateInvoiceRequest struct {
	ClientID  uuid.UUID         `json:"client_id" binding:"required"`
	ProjectID *uuid.UUID        `json:"project_id"`
	Items     []LineItemRequest `json:"items" binding:"dive"`
	TaxRate   *decimal.Decimal  `json:"tax_rate"`
	DueDate   *time.Time        `json:"due_date"`
	Notes     string            `json:"notes"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	Items   []LineItemRequest `json:"items" binding:"omitempty,dive"`
	TaxRate *decimal.Decimal  `json:"tax_rate"`
	DueDate *time.Time        `json:"due_date"`
	Notes   *string           `json:"notes"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID         uuid.UUID          `json:"id"`
	Number     string             `json:"number"`
	ClientID   uuid.UUID          `json:"client_id"`
	ProjectID  *uuid.UUID         `json:"project_id,omitempty"`
	EstimateID *uuid.UUID         `json:"estimate_id,omitempty"`
	Status     string             `json:"status"`
	IssueDate  time.Time          `json:"issue_date"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	TaxRate    decimal.Decimal    `json:"tax_rate"`
	TaxAmount  decimal.Decimal    `json:"tax_amount"`
	Total      decimal.Decimal    `json:"total"`
	AmountPaid decimal.Decimal    `json:"amount_paid"`
	Balance    decimal.Decimal    `json:"balance"`
	Notes      string             `json:"notes"`
	Items      []LineItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Version    int                `json:"version"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         inv.ID,
		Number:     inv.Number,
		ClientID:   inv.ClientID,
		ProjectID:  inv.ProjectID,
		EstimateID: inv.EstimateID,
		Status:     string(inv.Status),
		IssueDate:  inv.IssueDate,
		DueDate:    inv.DueDate,
		Subtotal:   inv.Subtotal,
		TaxRate:    inv.TaxRate,
		TaxAmount:  inv.TaxAmount,
		Total:      inv.Total,
		AmountPaid: inv.AmountPaid,
		Balance:    inv.Balance,
		Notes:      inv.Notes,
		Items:      toLineItemResponses(inv.Items),
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
		Version:    inv.Version,
	}
}

// ToInvoiceResponses converts domain Invoices to responses
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

// =============================================================================
// Payment DTOs
// =============================================================================

// RecordPaymentRequest represents a request to record a payment against an
// invoice
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     string          `json:"method" binding:"required,oneof=card bank_transfer cash check other"`
	ReceivedOn *time.Time      `json:"received_on"`
	Reference  string          `json:"reference" binding:"max=200"`
	Notes      string          `json:"notes"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	ReceivedOn time.Time       `json:"received_on"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount,
		Method:     string(p.Method),
		ReceivedOn: p.ReceivedOn,
		Reference:  p.Reference,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPaymentResponses converts domain Payments to responses
func ToPaymentResponses(payments []billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

package billing

import (
	"context"
	"errors"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceService handles invoice and payment business operations
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	paymentRepo  billing.PaymentRepository
	sequenceRepo billing.SequenceRepository
	clientRepo   directory.ClientRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	sequenceRepo billing.SequenceRepository,
	clientRepo directory.ClientRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		sequenceRepo: sequenceRepo,
		clientRepo:   clientRepo,
	}
}

// Create creates a draft invoice with a freshly issued number
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}

	value, err := s.sequenceRepo.NextNumber(ctx, tenantID, billing.DocumentKindInvoice)
	if err != nil {
		return nil, err
	}
	number := billing.FormatNumber(billing.DocumentKindInvoice, value)

	invoice, err := billing.NewInvoice(tenantID, req.ClientID, number)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.ProjectID != nil {
		invoice.ProjectID = req.ProjectID
	}
	if req.Notes != "" {
		invoice.SetNotes(req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invoices), total, nil
}

// ListOverdue retrieves outstanding invoices past their due date
func (s *InvoiceService) ListOverdue(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, tenantID, time.Now(), buildDocumentFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// Update updates a draft invoice. When items are provided they replace the
// existing lines.
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Items != nil {
		if !invoice.IsEditable() {
			return nil, shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
		}
		for _, existing := range append([]billing.LineItem(nil), invoice.Items...) {
			if err := invoice.RemoveItem(existing.ID); err != nil {
				return nil, err
			}
		}
		for _, item := range req.Items {
			if err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
				return nil, err
			}
		}
	}

	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		invoice.SetNotes(*req.Notes)
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Send marks an invoice as sent
func (s *InvoiceService) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, (*billing.Invoice).Send)
}

// Void voids an unpaid invoice
func (s *InvoiceService) Void(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, (*billing.Invoice).Void)
}

func (s *InvoiceService) transition(ctx context.Context, tenantID, invoiceID uuid.UUID, op func(*billing.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := op(invoice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RecordPayment applies a payment to an invoice and stores the payment row
// atomically. A non-empty reference makes the call idempotent: a second
// delivery with the same reference returns the stored payment.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	if req.Reference != "" {
		existing, err := s.paymentRepo.FindByReference(ctx, tenantID, req.Reference)
		if err == nil {
			response := ToPaymentResponse(existing)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.ApplyPayment(req.Amount); err != nil {
		return nil, err
	}

	receivedOn := time.Now()
	if req.ReceivedOn != nil {
		receivedOn = *req.ReceivedOn
	}

	payment, err := billing.NewPayment(tenantID, invoice.ID, req.Amount, billing.PaymentMethod(req.Method), receivedOn)
	if err != nil {
		return nil, err
	}
	if req.Reference != "" {
		if err := payment.SetReference(req.Reference); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		payment.SetNotes(req.Notes)
	}

	if err := s.invoiceRepo.SaveWithPayment(ctx, invoice, payment); err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// ListPayments retrieves the payments recorded against an invoice
func (s *InvoiceService) ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// Delete soft-deletes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}

	if !invoice.IsEditable() {
		return shared.NewDomainError("CANNOT_DELETE", "Only draft invoices can be deleted; void instead")
	}

	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID)
}

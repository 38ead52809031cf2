package billing

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EstimateService handles estimate-related business operations
type EstimateService struct {
	estimateRepo billing.EstimateRepository
	invoiceRepo  billing.InvoiceRepository
	sequenceRepo billing.SequenceRepository
	clientRepo   directory.ClientRepository
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(
	estimateRepo billing.EstimateRepository,
	invoiceRepo billing.InvoiceRepository,
	sequenceRepo billing.SequenceRepository,
	clientRepo directory.ClientRepository,
) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
		sequenceRepo: sequenceRepo,
		clientRepo:   clientRepo,
	}
}

// Create creates a draft estimate with a freshly issued number
func (s *EstimateService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEstimateRequest) (*EstimateResponse, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}

	value, err := s.sequenceRepo.NextNumber(ctx, tenantID, billing.DocumentKindEstimate)
	if err != nil {
		return nil, err
	}
	number := billing.FormatNumber(billing.DocumentKindEstimate, value)

	estimate, err := billing.NewEstimate(tenantID, req.ClientID, number)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := estimate.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.TaxRate != nil {
		if err := estimate.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.ExpiryDate != nil {
		if err := estimate.SetExpiryDate(req.ExpiryDate); err != nil {
			return nil, err
		}
	}
	if req.ProjectID != nil {
		estimate.LinkProject(*req.ProjectID)
	}
	if req.Notes != "" {
		estimate.SetNotes(req.Notes)
	}

	if err := s.estimateRepo.Save(ctx, estimate); err != nil {
		return nil, err
	}

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// GetByID retrieves an estimate by ID
func (s *EstimateService) GetByID(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// List retrieves estimates with filtering and pagination
func (s *EstimateService) List(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]EstimateResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	estimates, err := s.estimateRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.estimateRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToEstimateResponses(estimates), total, nil
}

// Update updates a draft estimate. When items are provided they replace the
// existing lines.
func (s *EstimateService) Update(ctx context.Context, tenantID, estimateID uuid.UUID, req UpdateEstimateRequest) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}

	if req.Items != nil {
		if !estimate.IsEditable() {
			return nil, shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
		}
		for _, existing := range append([]billing.LineItem(nil), estimate.Items...) {
			if err := estimate.RemoveItem(existing.ID); err != nil {
				return nil, err
			}
		}
		for _, item := range req.Items {
			if err := estimate.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
				return nil, err
			}
		}
	}

	if req.TaxRate != nil {
		if err := estimate.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.ExpiryDate != nil {
		if err := estimate.SetExpiryDate(req.ExpiryDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		estimate.SetNotes(*req.Notes)
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// Send marks an estimate as sent to the client
func (s *EstimateService) Send(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, tenantID, estimateID, (*billing.Estimate).Send)
}

// Accept marks a sent estimate as accepted
func (s *EstimateService) Accept(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, tenantID, estimateID, (*billing.Estimate).Accept)
}

// Decline marks a sent estimate as declined
func (s *EstimateService) Decline(ctx context.Context, tenantID, estimateID uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, tenantID, estimateID, (*billing.Estimate).Decline)
}

func (s *EstimateService) transition(ctx context.Context, tenantID, estimateID uuid.UUID, op func(*billing.Estimate) error) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}

	if err := op(estimate); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// ConvertToInvoice creates a draft invoice from an accepted estimate,
// issuing the next invoice number
func (s *EstimateService) ConvertToInvoice(ctx context.Context, tenantID, estimateID uuid.UUID) (*InvoiceResponse, error) {
	estimate, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}

	value, err := s.sequenceRepo.NextNumber(ctx, tenantID, billing.DocumentKindInvoice)
	if err != nil {
		return nil, err
	}
	number := billing.FormatNumber(billing.DocumentKindInvoice, value)

	invoice, err := estimate.ConvertToInvoice(number)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ExpireStale marks sent estimates whose expiry date has passed. Intended
// to run periodically.
func (s *EstimateService) ExpireStale(ctx context.Context, tenantID uuid.UUID) (int, error) {
	now := time.Now()
	filter := shared.Filter{
		Page:     1,
		PageSize: 200,
		Filters:  map[string]any{"status": string(billing.EstimateStatusSent)},
	}

	// Collect all stale candidates before writing anything. Expiring while
	// paging would shrink the sent set under the pagination and skip rows.
	var stale []billing.Estimate
	for {
		estimates, err := s.estimateRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return 0, err
		}
		for i := range estimates {
			if estimates[i].ExpiryDate == nil || estimates[i].ExpiryDate.After(now) {
				continue
			}
			stale = append(stale, estimates[i])
		}
		if len(estimates) < filter.PageSize {
			break
		}
		filter.Page++
	}

	expired := 0
	for i := range stale {
		estimate := &stale[i]
		if err := estimate.MarkExpired(now); err != nil {
			continue
		}
		if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// Delete soft-deletes an estimate
func (s *EstimateService) Delete(ctx context.Context, tenantID, estimateID uuid.UUID) error {
	return s.estimateRepo.DeleteForTenant(ctx, tenantID, estimateID)
}

func buildDocumentFilter(filter DocumentListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	return domainFilter
}

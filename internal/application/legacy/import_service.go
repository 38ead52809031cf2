package legacy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/legacy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// importPageSize is the page size used when walking legacy collections
const importPageSize = 100

// ImportService pulls clients and invoices from the legacy object store
// into the relational schema. Imports are idempotent: clients match on
// their legacy reference, invoices on their document number, so a rerun
// skips everything already present.
type ImportService struct {
	legacyClient *legacy.Client
	clientRepo   directory.ClientRepository
	invoiceRepo  billing.InvoiceRepository
	logger       *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	legacyClient *legacy.Client,
	clientRepo directory.ClientRepository,
	invoiceRepo billing.InvoiceRepository,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		legacyClient: legacyClient,
		clientRepo:   clientRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger,
	}
}

// ImportClients walks the legacy clients collection and creates a client
// row for each record not yet imported
func (s *ImportService) ImportClients(ctx context.Context, tenantID uuid.UUID) (*ImportResult, error) {
	result := &ImportResult{}

	err := s.walk(ctx, "clients", func(record legacy.Record) {
		if err := s.importClient(ctx, tenantID, record); err != nil {
			if errors.Is(err, errAlreadyImported) {
				result.Skipped++
				return
			}
			s.logger.Warn("Client import failed",
				zap.String("legacy_id", recordString(record, "id")),
				zap.Error(err),
			)
			result.addError(err)
			return
		}
		result.Imported++
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ImportInvoices walks the legacy invoices collection and creates an
// invoice row for each record not yet imported. Clients must be imported
// first so invoices can resolve their owner.
func (s *ImportService) ImportInvoices(ctx context.Context, tenantID uuid.UUID) (*ImportResult, error) {
	result := &ImportResult{}

	err := s.walk(ctx, "invoices", func(record legacy.Record) {
		if err := s.importInvoice(ctx, tenantID, record); err != nil {
			if errors.Is(err, errAlreadyImported) {
				result.Skipped++
				return
			}
			s.logger.Warn("Invoice import failed",
				zap.String("legacy_id", recordString(record, "id")),
				zap.Error(err),
			)
			result.addError(err)
			return
		}
		result.Imported++
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// errAlreadyImported marks records skipped by the idempotency checks
var errAlreadyImported = errors.New("already imported")

// walk pages through a legacy collection and feeds every record to fn.
// A page fetch error aborts the walk; per-record errors do not.
func (s *ImportService) walk(ctx context.Context, collection string, fn func(legacy.Record)) error {
	offset := 0
	for {
		page, err := s.legacyClient.List(ctx, collection, offset, importPageSize)
		if err != nil {
			return fmt.Errorf("listing legacy %s at offset %d: %w", collection, offset, err)
		}

		for _, record := range page.Items {
			fn(record)
		}

		if !page.HasMore || len(page.Items) == 0 {
			return nil
		}
		offset += len(page.Items)
	}
}

func (s *ImportService) importClient(ctx context.Context, tenantID uuid.UUID, record legacy.Record) error {
	legacyID := recordString(record, "id")
	if legacyID == "" {
		return errors.New("client record has no id")
	}

	_, err := s.clientRepo.FindByLegacyRef(ctx, tenantID, legacyID)
	if err == nil {
		return errAlreadyImported
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	name := recordString(record, "name")
	code := recordString(record, "code")
	if code == "" {
		code = legacyCode(legacyID)
	}

	clientType := directory.ClientTypeIndividual
	if recordString(record, "type") == "company" {
		clientType = directory.ClientTypeCompany
	}

	client, err := directory.NewClient(tenantID, code, name, clientType)
	if err != nil {
		return fmt.Errorf("legacy client %s: %w", legacyID, err)
	}
	client.SetLegacyRef(legacyID)

	email := recordString(record, "email")
	phone := recordString(record, "phone")
	if email != "" || phone != "" {
		if err := client.SetContact(email, phone); err != nil {
			return fmt.Errorf("legacy client %s: %w", legacyID, err)
		}
	}

	address := recordString(record, "address")
	city := recordString(record, "city")
	state := recordString(record, "state")
	postalCode := recordString(record, "postalCode")
	country := recordString(record, "country")
	if address != "" || city != "" || state != "" || postalCode != "" || country != "" {
		if err := client.SetAddress(address, city, state, postalCode, country); err != nil {
			return fmt.Errorf("legacy client %s: %w", legacyID, err)
		}
	}

	return s.clientRepo.Save(ctx, client)
}

func (s *ImportService) importInvoice(ctx context.Context, tenantID uuid.UUID, record legacy.Record) error {
	legacyID := recordString(record, "id")
	number := recordString(record, "number")
	if number == "" {
		return fmt.Errorf("legacy invoice %s has no number", legacyID)
	}

	_, err := s.invoiceRepo.FindByNumber(ctx, tenantID, number)
	if err == nil {
		return errAlreadyImported
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	clientRef := recordString(record, "clientId")
	owner, err := s.clientRepo.FindByLegacyRef(ctx, tenantID, clientRef)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("legacy invoice %s: owner %s not imported", legacyID, clientRef)
		}
		return err
	}

	invoice, err := billing.NewInvoice(tenantID, owner.ID, number)
	if err != nil {
		return fmt.Errorf("legacy invoice %s: %w", legacyID, err)
	}

	items, _ := record["lineItems"].([]any)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if err := invoice.AddItem(
			recordString(item, "description"),
			recordDecimal(item, "quantity"),
			recordDecimal(item, "unitPrice"),
		); err != nil {
			return fmt.Errorf("legacy invoice %s: %w", legacyID, err)
		}
	}

	if taxRate := recordDecimal(record, "taxRate"); !taxRate.IsZero() {
		if err := invoice.SetTaxRate(taxRate); err != nil {
			return fmt.Errorf("legacy invoice %s: %w", legacyID, err)
		}
	}
	if dueDate, ok := recordTime(record, "dueDate"); ok {
		if err := invoice.SetDueDate(&dueDate); err != nil {
			return fmt.Errorf("legacy invoice %s: %w", legacyID, err)
		}
	}
	if notes := recordString(record, "notes"); notes != "" {
		invoice.SetNotes(notes)
	}

	// Replay the legacy lifecycle: anything past draft was sent, and a
	// recorded amount paid becomes a balance credit.
	status := recordString(record, "status")
	if status != "" && status != "draft" {
		if err := invoice.Send(); err != nil {
			return fmt.Errorf("legacy invoice %s: %w", legacyID, err)
		}
	}
	if paid := recordDecimal(record, "amountPaid"); paid.IsPositive() {
		if err := invoice.ApplyPayment(paid); err != nil {
			return fmt.Errorf("legacy invoice %s: %w", legacyID, err)
		}
	}

	return s.invoiceRepo.Save(ctx, invoice)
}

// legacyCode derives a client code from a legacy ID when the record
// carries none
func legacyCode(legacyID string) string {
	code := strings.ToUpper(strings.ReplaceAll(legacyID, "-", ""))
	if len(code) > 20 {
		code = code[:20]
	}
	return "LEG-" + code
}

func recordString(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func recordDecimal(record map[string]any, key string) decimal.Decimal {
	switch v := record[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func recordTime(record map[string]any, key string) (time.Time, bool) {
	raw, ok := record[key].(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

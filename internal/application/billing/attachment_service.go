package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
)

// downloadURLExpiry bounds how long a presigned attachment link stays valid
const downloadURLExpiry = 15 * time.Minute

// AttachmentService stores and serves estimate and invoice file attachments
type AttachmentService struct {
	store        storage.ObjectStore
	estimateRepo billing.EstimateRepository
	invoiceRepo  billing.InvoiceRepository
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	store storage.ObjectStore,
	estimateRepo billing.EstimateRepository,
	invoiceRepo billing.InvoiceRepository,
) *AttachmentService {
	return &AttachmentService{
		store:        store,
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// AttachmentResponse describes a stored attachment
type AttachmentResponse struct {
	FileName string `json:"file_name"`
	Key      string `json:"key"`
}

// AttachmentURLResponse carries a time-limited download link
type AttachmentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadEstimateAttachment stores a file against an estimate owned by the
// tenant
func (s *AttachmentService) UploadEstimateAttachment(ctx context.Context, tenantID, estimateID uuid.UUID, fileName, contentType string, body io.Reader) (*AttachmentResponse, error) {
	if _, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID); err != nil {
		return nil, err
	}
	return s.upload(ctx, tenantID, "estimates", estimateID, fileName, contentType, body)
}

// UploadInvoiceAttachment stores a file against an invoice owned by the
// tenant
func (s *AttachmentService) UploadInvoiceAttachment(ctx context.Context, tenantID, invoiceID uuid.UUID, fileName, contentType string, body io.Reader) (*AttachmentResponse, error) {
	if _, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	return s.upload(ctx, tenantID, "invoices", invoiceID, fileName, contentType, body)
}

// EstimateAttachmentURL returns a presigned download link for an estimate
// attachment
func (s *AttachmentService) EstimateAttachmentURL(ctx context.Context, tenantID, estimateID uuid.UUID, fileName string) (*AttachmentURLResponse, error) {
	if _, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID); err != nil {
		return nil, err
	}
	return s.presign(ctx, tenantID, "estimates", estimateID, fileName)
}

// InvoiceAttachmentURL returns a presigned download link for an invoice
// attachment
func (s *AttachmentService) InvoiceAttachmentURL(ctx context.Context, tenantID, invoiceID uuid.UUID, fileName string) (*AttachmentURLResponse, error) {
	if _, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	return s.presign(ctx, tenantID, "invoices", invoiceID, fileName)
}

// DeleteEstimateAttachment removes a stored estimate attachment
func (s *AttachmentService) DeleteEstimateAttachment(ctx context.Context, tenantID, estimateID uuid.UUID, fileName string) error {
	if _, err := s.estimateRepo.FindByIDForTenant(ctx, tenantID, estimateID); err != nil {
		return err
	}
	return s.remove(ctx, tenantID, "estimates", estimateID, fileName)
}

// DeleteInvoiceAttachment removes a stored invoice attachment
func (s *AttachmentService) DeleteInvoiceAttachment(ctx context.Context, tenantID, invoiceID uuid.UUID, fileName string) error {
	if _, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID); err != nil {
		return err
	}
	return s.remove(ctx, tenantID, "invoices", invoiceID, fileName)
}

func (s *AttachmentService) remove(ctx context.Context, tenantID uuid.UUID, kind string, docID uuid.UUID, fileName string) error {
	key, err := attachmentKey(tenantID, kind, docID, fileName)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return nil
}

func (s *AttachmentService) upload(ctx context.Context, tenantID uuid.UUID, kind string, docID uuid.UUID, fileName, contentType string, body io.Reader) (*AttachmentResponse, error) {
	key, err := attachmentKey(tenantID, kind, docID, fileName)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.store.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("uploading attachment: %w", err)
	}
	return &AttachmentResponse{FileName: fileName, Key: key}, nil
}

func (s *AttachmentService) presign(ctx context.Context, tenantID uuid.UUID, kind string, docID uuid.UUID, fileName string) (*AttachmentURLResponse, error) {
	key, err := attachmentKey(tenantID, kind, docID, fileName)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignDownload(ctx, key, downloadURLExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("presigning attachment: %w", err)
	}
	return &AttachmentURLResponse{URL: url, ExpiresAt: time.Now().Add(downloadURLExpiry)}, nil
}

// attachmentKey builds the object key, scoping attachments under their
// tenant so keys never cross tenant boundaries
func attachmentKey(tenantID uuid.UUID, kind string, docID uuid.UUID, fileName string) (string, error) {
	if fileName == "" || strings.ContainsAny(fileName, "/\\") || strings.Contains(fileName, "..") {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid attachment file name")
	}
	return fmt.Sprintf("%s/%s/%s/%s", tenantID, kind, docID, fileName), nil
}

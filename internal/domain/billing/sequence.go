package billing

import (
	"fmt"

	"github.com/google/uuid"
)

// DocumentKind identifies a numbered document type
type DocumentKind string

const (
	DocumentKindEstimate DocumentKind = "estimate"
	DocumentKindInvoice  DocumentKind = "invoice"
)

// documentPrefixes maps document kinds to their number prefix
var documentPrefixes = map[DocumentKind]string{
	DocumentKindEstimate: "EST",
	DocumentKindInvoice:  "INV",
}

// DocumentSequence holds the per-tenant monotonic counter for a document
// kind. The repository increments it under a row lock, which replaces the
// stored-procedure numbering used by the legacy system.
type DocumentSequence struct {
	TenantID  uuid.UUID    `gorm:"type:uuid;not null;primaryKey"`
	Kind      DocumentKind `gorm:"type:varchar(20);not null;primaryKey"`
	NextValue int64        `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// FormatNumber renders a document number such as INV-000042
func FormatNumber(kind DocumentKind, value int64) string {
	prefix, ok := documentPrefixes[kind]
	if !ok {
		prefix = "DOC"
	}
	return fmt.Sprintf("%s-%06d", prefix, value)
}

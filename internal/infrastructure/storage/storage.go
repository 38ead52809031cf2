package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when the requested object does not exist
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStore stores document attachments (estimate and invoice files)
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error
	// PresignDownload returns a time-limited URL for fetching the object
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

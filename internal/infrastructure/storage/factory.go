package storage

import (
	"context"
	"fmt"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewObjectStore creates an object store per configuration
func NewObjectStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	switch cfg.Provider {
	case "s3":
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using S3 attachment storage", zap.String("bucket", cfg.Bucket))
		return store, nil
	case "stub":
		logger.Info("using stub attachment storage")
		return NewStubStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}

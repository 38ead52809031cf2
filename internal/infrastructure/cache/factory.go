package cache

import (
	"fmt"

	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SessionStoreFactory creates session stores based on configuration
type SessionStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SessionStoreFactoryOption configures the factory
type SessionStoreFactoryOption func(*SessionStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// store when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSessionStoreFactory creates a new factory
func NewSessionStoreFactory(cfg config.RedisConfig, opts ...SessionStoreFactoryOption) *SessionStoreFactory {
	f := &SessionStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore creates a session store. Redis is preferred when enabled;
// the in-memory store is used when Redis is disabled or unreachable and
// fallback is allowed.
func (f *SessionStoreFactory) CreateStore() (portal.SessionStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory portal session store")
		return NewInMemorySessionStore(), nil
	}

	store, err := NewRedisSessionStore(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis portal session store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for portal sessions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory portal session store. "+
		"Sessions will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemorySessionStore(), nil
}

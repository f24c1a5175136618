package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// State store backends
const (
	StateStoreRedis  = "redis"
	StateStoreMemory = "memory"
)

// StateStoreFactory creates OAuth state stores based on configuration
type StateStoreFactory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StateStoreFactoryOption is a functional option for configuring the factory
type StateStoreFactoryOption func(*StateStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StateStoreFactoryOption {
	return func(f *StateStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable
func WithInMemoryFallback(allow bool) StateStoreFactoryOption {
	return func(f *StateStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStateStoreFactory creates a new factory
func NewStateStoreFactory(cfg RedisConfig, opts ...StateStoreFactoryOption) *StateStoreFactory {
	f := &StateStoreFactory{
		redisConfig: cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the store for backend. The Redis client is returned so the
// caller can close it on shutdown; it is nil for the in-memory store.
func (f *StateStoreFactory) Create(backend string) (fulfillment.StateStore, *redis.Client, error) {
	switch backend {
	case StateStoreMemory:
		f.logger.Warn("using in-memory oauth state store; callbacks must reach the instance that started the flow")
		return NewInMemoryStateStore(), nil, nil
	case StateStoreRedis, "":
	default:
		return nil, nil, fmt.Errorf("cache: unknown state store %q", backend)
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis oauth state store", zap.String("addr", f.redisConfig.Addr))
		return NewRedisStateStore(client, ""), client, nil
	}
	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("Redis required for oauth state but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory oauth state store",
		zap.Error(err),
	)
	return NewInMemoryStateStore(), nil, nil
}

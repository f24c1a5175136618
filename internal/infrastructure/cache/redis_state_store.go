package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

const defaultStateKeyPrefix = "oauth:state:"

// ErrStateExists is returned when a freshly generated token collides
var ErrStateExists = errors.New("cache: oauth state already exists")

// RedisStateStore implements StateStore using Redis.
// Suitable for deployments where the callback may land on another instance.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStateStore creates a store with an existing Redis client
func NewRedisStateStore(client *redis.Client, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = defaultStateKeyPrefix
	}
	return &RedisStateStore{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// Save stores the state with a TTL matching its expiry.
// Uses SET NX EX so an existing token is never overwritten.
func (s *RedisStateStore) Save(ctx context.Context, state *fulfillment.OAuthState) error {
	ttl := state.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("cache: oauth state already expired")
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("cache: encode oauth state: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.keyPrefix+state.Token, payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	if !ok {
		return ErrStateExists
	}
	return nil
}

// Consume atomically reads and deletes the state with GETDEL
func (s *RedisStateStore) Consume(ctx context.Context, token string) (*fulfillment.OAuthState, error) {
	if token == "" {
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	payload, err := s.client.GetDel(ctx, s.keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	var state fulfillment.OAuthState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("%w: corrupt state", fulfillment.ErrInvalidOrExpiredState)
	}
	if state.IsExpired(s.now()) {
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	return &state, nil
}

// Ensure RedisStateStore implements StateStore
var _ fulfillment.StateStore = (*RedisStateStore)(nil)

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

func newState(token string, now time.Time, ttl time.Duration) *fulfillment.OAuthState {
	return &fulfillment.OAuthState{
		Token:     token,
		SellerID:  uuid.New(),
		Provider:  "shiphub",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestInMemoryStateStore_SingleUse(t *testing.T) {
	store := NewInMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	st := newState("tok-1", time.Now(), time.Hour)
	require.NoError(t, store.Save(ctx, st))

	got, err := store.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, st.SellerID, got.SellerID)

	_, err = store.Consume(ctx, "tok-1")
	assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState, "second use must fail")
}

func TestInMemoryStateStore_Expired(t *testing.T) {
	store := NewInMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(ctx, newState("tok-2", now, 24*time.Hour)))

	store.now = func() time.Time { return now.Add(24*time.Hour + time.Second) }
	_, err := store.Consume(ctx, "tok-2")
	assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
	assert.Equal(t, 0, store.Size())
}

func TestInMemoryStateStore_UnknownToken(t *testing.T) {
	store := NewInMemoryStateStore()
	defer store.Close()

	_, err := store.Consume(context.Background(), "never-issued")
	assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
}

func TestInMemoryStateStore_NoOverwrite(t *testing.T) {
	store := NewInMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newState("dup", time.Now(), time.Hour)))
	assert.ErrorIs(t, store.Save(ctx, newState("dup", time.Now(), time.Hour)), ErrStateExists)
}

func TestInMemoryStateStore_ConcurrentConsume(t *testing.T) {
	store := NewInMemoryStateStore()
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, newState("race", time.Now(), time.Hour)))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, "race"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryStateStore_Cleanup(t *testing.T) {
	store := NewInMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Save(ctx, newState("old", now, time.Millisecond)))
	require.NoError(t, store.Save(ctx, newState("new", now, time.Hour)))

	store.now = func() time.Time { return now.Add(time.Minute) }
	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestStateStoreFactory_Memory(t *testing.T) {
	f := NewStateStoreFactory(RedisConfig{}, WithLogger(zap.NewNop()))

	store, client, err := f.Create(StateStoreMemory)
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &InMemoryStateStore{}, store)

	_, _, err = f.Create("etcd")
	assert.Error(t, err)
}

func TestStateStoreFactory_RedisUnavailable(t *testing.T) {
	cfg := RedisConfig{Addr: "127.0.0.1:1"}

	_, _, err := NewStateStoreFactory(cfg).Create(StateStoreRedis)
	assert.Error(t, err)

	store, _, err := NewStateStoreFactory(cfg, WithInMemoryFallback(true)).Create(StateStoreRedis)
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStateStore{}, store)
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// InMemoryStateStore implements StateStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryStateStore struct {
	mu        sync.Mutex
	states    map[string]fulfillment.OAuthState
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStateStore creates a new in-memory state store.
// It starts a background goroutine to drop expired states.
func NewInMemoryStateStore() *InMemoryStateStore {
	store := &InMemoryStateStore{
		states:   make(map[string]fulfillment.OAuthState),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Save stores a new state; an existing live token is never overwritten
func (s *InMemoryStateStore) Save(ctx context.Context, state *fulfillment.OAuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.states[state.Token]; ok && !existing.IsExpired(s.now()) {
		return ErrStateExists
	}
	s.states[state.Token] = *state
	return nil
}

// Consume loads and deletes a state under one lock
func (s *InMemoryStateStore) Consume(ctx context.Context, token string) (*fulfillment.OAuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[token]
	if !ok {
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	delete(s.states, token)
	if state.IsExpired(s.now()) {
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	return &state, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryStateStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryStateStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryStateStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, st := range s.states {
		if st.IsExpired(now) {
			delete(s.states, token)
		}
	}
}

// Size returns the number of stored states (for testing/monitoring)
func (s *InMemoryStateStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Ensure InMemoryStateStore implements StateStore
var _ fulfillment.StateStore = (*InMemoryStateStore)(nil)

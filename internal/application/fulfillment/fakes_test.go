package fulfillment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
)

// memoryLeases is an in-memory LeaseRepository with the same expiry rules
// as the database implementation
type memoryLeases struct {
	mu     sync.Mutex
	leases map[string]fulfillment.Lease
}

func newMemoryLeases() *memoryLeases {
	return &memoryLeases{leases: make(map[string]fulfillment.Lease)}
}

func (m *memoryLeases) TryAcquire(_ context.Context, key, holder string, now time.Time, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leases[key]; ok && l.Holder != holder && now.Before(l.ExpiresAt) {
		return false, nil
	}
	m.leases[key] = fulfillment.Lease{Key: key, Holder: holder, ExpiresAt: now.Add(ttl)}
	return true, nil
}

func (m *memoryLeases) Release(_ context.Context, key, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leases[key]; ok && l.Holder == holder {
		delete(m.leases, key)
	}
	return nil
}

func (m *memoryLeases) Get(_ context.Context, key string) (*fulfillment.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leases[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (m *memoryLeases) held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.leases[key]
	return ok
}

// memoryRuns is an in-memory SyncRunRepository
type memoryRuns struct {
	mu   sync.Mutex
	runs map[uuid.UUID]fulfillment.SyncRun
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: make(map[uuid.UUID]fulfillment.SyncRun)}
}

func (m *memoryRuns) Create(_ context.Context, run *fulfillment.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *memoryRuns) Update(_ context.Context, run *fulfillment.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; !ok {
		return shared.ErrNotFound
	}
	m.runs[run.ID] = *run
	return nil
}

func (m *memoryRuns) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRuns) FindLatest(_ context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName) (*fulfillment.SyncRun, error) {
	var latest *fulfillment.SyncRun
	for _, r := range m.sorted() {
		if r.SellerID == sellerID && r.ProviderName == provider {
			latest = &r
			break
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (m *memoryRuns) List(_ context.Context, filter fulfillment.SyncRunFilter) ([]fulfillment.SyncRun, error) {
	out := make([]fulfillment.SyncRun, 0)
	for _, r := range m.sorted() {
		if r.SellerID != filter.SellerID {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *memoryRuns) FindRunning(_ context.Context) ([]fulfillment.SyncRun, error) {
	out := make([]fulfillment.SyncRun, 0)
	for _, r := range m.sorted() {
		if r.Status == fulfillment.SyncRunStatusRunning {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRuns) sorted() []fulfillment.SyncRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]fulfillment.SyncRun, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryRuns) all() []fulfillment.SyncRun {
	return m.sorted()
}

var (
	_ fulfillment.LeaseRepository   = (*memoryLeases)(nil)
	_ fulfillment.SyncRunRepository = (*memoryRuns)(nil)
)

package fulfillment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// ProviderGate bounds outbound provider calls. Each provider gets its own
// concurrency cap shared by every seller, sync and transfer in the process.
type ProviderGate struct {
	concurrency int64
	timeout     time.Duration
	metrics     Metrics

	mu   sync.Mutex
	sems map[fulfillment.ProviderName]*semaphore.Weighted
}

// NewProviderGate creates a gate allowing concurrency in-flight calls per
// provider, each bounded by timeout
func NewProviderGate(concurrency int, timeout time.Duration, metrics Metrics) *ProviderGate {
	if concurrency <= 0 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ProviderGate{
		concurrency: int64(concurrency),
		timeout:     timeout,
		metrics:     metricsOrNop(metrics),
		sems:        make(map[fulfillment.ProviderName]*semaphore.Weighted),
	}
}

// Call runs fn under the provider's cap and timeout and records the call.
// A context ending while waiting for a slot is reported as unavailable.
func (g *ProviderGate) Call(ctx context.Context, name fulfillment.ProviderName, op string, fn func(context.Context) error) error {
	sem := g.semaphore(name)
	if err := sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: waiting for %s slot: %v", fulfillment.ErrProviderUnavailable, name, err)
	}
	defer sem.Release(1)

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	start := time.Now()
	err := fn(cctx)
	g.metrics.RecordProviderCall(ctx, name, op, err, time.Since(start))
	return err
}

func (g *ProviderGate) semaphore(name fulfillment.ProviderName) *semaphore.Weighted {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sems[name]
	if !ok {
		s = semaphore.NewWeighted(g.concurrency)
		g.sems[name] = s
	}
	return s
}

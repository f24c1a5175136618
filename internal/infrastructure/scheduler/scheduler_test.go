package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
)

type fakeRunner struct {
	mu       sync.Mutex
	due      []fulfillment.SyncSchedule
	dueErr   error
	reaped   int
	reapErr  error
	ran      []uuid.UUID
	runErr   error
	block    chan struct{}
	started  chan uuid.UUID
	reapCall atomic.Int32
}

func (r *fakeRunner) ReapStaleRuns(ctx context.Context, now time.Time) (int, error) {
	r.reapCall.Add(1)
	return r.reaped, r.reapErr
}

func (r *fakeRunner) DueSchedules(ctx context.Context, now time.Time) ([]fulfillment.SyncSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.due, r.dueErr
}

func (r *fakeRunner) RunSchedule(ctx context.Context, s *fulfillment.SyncSchedule) error {
	if r.started != nil {
		r.started <- s.ID
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran = append(r.ran, s.ID)
	return r.runErr
}

func (r *fakeRunner) ranCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ran)
}

func schedule() fulfillment.SyncSchedule {
	return fulfillment.SyncSchedule{
		SellerEntity: shared.NewSellerEntity(uuid.New(), time.Now()),
		ProviderName: "shiphub",
		Enabled:      true,
	}
}

func testConfig(workers int) Config {
	return Config{Enabled: true, CheckInterval: time.Hour, MaxConcurrentJobs: workers, JobTimeout: time.Second}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero interval", func(c *Config) { c.CheckInterval = 0 }},
		{"zero workers", func(c *Config) { c.MaxConcurrentJobs = 0 }},
		{"zero timeout", func(c *Config) { c.JobTimeout = 0 }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestScheduleTrigger_TickRunsDueSchedules(t *testing.T) {
	runner := &fakeRunner{due: []fulfillment.SyncSchedule{schedule(), schedule()}, runErr: errors.New("provider down")}
	trigger, err := NewScheduleTrigger(testConfig(2), runner, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	queued := trigger.Tick(context.Background())

	assert.Equal(t, 2, queued)
	assert.Eventually(t, func() bool { return runner.ranCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), runner.reapCall.Load())
}

func TestScheduleTrigger_SkipsInFlightSchedule(t *testing.T) {
	s := schedule()
	runner := &fakeRunner{
		due:     []fulfillment.SyncSchedule{s},
		block:   make(chan struct{}),
		started: make(chan uuid.UUID, 4),
	}
	trigger, err := NewScheduleTrigger(testConfig(2), runner, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))

	assert.Equal(t, 1, trigger.Tick(context.Background()))
	<-runner.started
	assert.Zero(t, trigger.Tick(context.Background()), "running schedule must not be queued twice")

	close(runner.block)
	assert.Eventually(t, func() bool { return runner.ranCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return trigger.Tick(context.Background()) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))
}

func TestScheduleTrigger_FullQueueSkipsUntilNextTick(t *testing.T) {
	due := []fulfillment.SyncSchedule{schedule(), schedule(), schedule(), schedule()}
	runner := &fakeRunner{due: due, block: make(chan struct{}), started: make(chan uuid.UUID, 8)}
	trigger, err := NewScheduleTrigger(testConfig(1), runner, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))

	queued := trigger.Tick(context.Background())

	assert.Less(t, queued, len(due))
	assert.GreaterOrEqual(t, queued, 1)
	close(runner.block)
	require.NoError(t, trigger.Stop(context.Background()))
}

func TestScheduleTrigger_DueError(t *testing.T) {
	runner := &fakeRunner{dueErr: errors.New("db down"), reapErr: errors.New("db down")}
	trigger, err := NewScheduleTrigger(testConfig(1), runner, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	assert.Zero(t, trigger.Tick(context.Background()))
}

func TestScheduleTrigger_NotRunning(t *testing.T) {
	runner := &fakeRunner{due: []fulfillment.SyncSchedule{schedule()}}
	trigger, err := NewScheduleTrigger(testConfig(1), runner, zap.NewNop())
	require.NoError(t, err)

	assert.Zero(t, trigger.Tick(context.Background()))
	assert.ErrorIs(t, trigger.submit(schedule()), ErrSchedulerNotRunning)
	require.NoError(t, trigger.Stop(context.Background()))
}

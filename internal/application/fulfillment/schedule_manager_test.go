package fulfillment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/provider"
	"github.com/fulfillsync/backend/internal/infrastructure/retry"
)

var hourly = fulfillment.Frequency{Kind: fulfillment.FrequencyKindInterval, Value: "1h"}

type scheduleFixture struct {
	manager   *SyncScheduleManager
	schedules *MockScheduleRepository
	executor  *MockSyncExecutor
	notifier  *MockNotificationSender
	tracker   *SyncProgressTracker
	leases    *memoryLeases
	now       time.Time
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	registry, err := provider.NewRegistry(newMockProvider("shiphub"))
	require.NoError(t, err)

	leases := newMemoryLeases()
	f := &scheduleFixture{
		schedules: new(MockScheduleRepository),
		executor:  new(MockSyncExecutor),
		notifier:  new(MockNotificationSender),
		tracker:   NewSyncProgressTracker(newMemoryRuns(), leases, "test", time.Minute, zap.NewNop()),
		leases:    leases,
		now:       time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	policy := retry.Policy{BaseDelay: time.Second, MaxDelay: time.Minute, MaxAttempts: 5}
	f.manager = NewSyncScheduleManager(f.schedules, registry, f.tracker, f.executor, f.notifier, policy, time.Minute, zap.NewNop())
	f.manager.now = func() time.Time { return f.now }
	return f
}

func (f *scheduleFixture) newSchedule(t *testing.T, policy fulfillment.RetryPolicy) *fulfillment.SyncSchedule {
	t.Helper()
	s, err := fulfillment.NewSyncSchedule(uuid.New(), "hourly", "shiphub", hourly, "UTC", f.now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.SetRetryPolicy(policy, f.now))
	return s
}

// executeReturning makes the executor finish the run the way the
// orchestrator does and return err
func (f *scheduleFixture) executeReturning(err error) *mock.Call {
	return f.executor.On("Execute", mock.Anything, mock.AnythingOfType("*fulfillment.SyncRun"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			run := args.Get(1).(*fulfillment.SyncRun)
			_ = f.tracker.Finish(context.Background(), run, 3, 0, "", err)
		}).
		Return(err)
}

func TestSyncScheduleManager_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	disabled := false

	tests := []struct {
		name    string
		in      ScheduleInput
		wantErr error
		enabled bool
	}{
		{
			name:    "interval schedule",
			in:      ScheduleInput{SellerID: seller, Provider: "shiphub", Frequency: hourly},
			enabled: true,
		},
		{
			name: "created disabled",
			in: ScheduleInput{SellerID: seller, Provider: "shiphub", Enabled: &disabled,
				Frequency: fulfillment.Frequency{Kind: fulfillment.FrequencyKindCron, Value: "0 6 * * *"}, Timezone: "Europe/Berlin"},
		},
		{
			name:    "unknown provider",
			in:      ScheduleInput{SellerID: seller, Provider: "nowhere", Frequency: hourly},
			wantErr: fulfillment.ErrUnknownProvider,
		},
		{
			name:    "interval below minimum",
			in:      ScheduleInput{SellerID: seller, Provider: "shiphub", Frequency: fulfillment.Frequency{Kind: fulfillment.FrequencyKindInterval, Value: "30s"}},
			wantErr: fulfillment.ErrInvalidFrequency,
		},
		{
			name:    "unknown timezone",
			in:      ScheduleInput{SellerID: seller, Provider: "shiphub", Frequency: hourly, Timezone: "Mars/Olympus"},
			wantErr: fulfillment.ErrInvalidTimezone,
		},
		{
			name:    "too many retries",
			in:      ScheduleInput{SellerID: seller, Provider: "shiphub", Frequency: hourly, RetryPolicy: fulfillment.RetryPolicy{MaxRetries: 50}},
			wantErr: shared.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			f.schedules.On("Save", ctx, mock.Anything).Return(nil).Maybe()

			s, err := f.manager.CreateSchedule(ctx, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.schedules.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, s.Enabled)
			assert.Equal(t, fulfillment.ScheduleStateIdle, s.State)
			assert.NotEmpty(t, s.Name)
		})
	}
}

func TestSyncScheduleManager_GetScheduleHidesOtherSellers(t *testing.T) {
	f := newScheduleFixture(t)
	s := f.newSchedule(t, fulfillment.RetryPolicy{})
	f.schedules.On("FindByID", mock.Anything, s.ID).Return(s, nil)

	_, err := f.manager.GetSchedule(context.Background(), uuid.New(), s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := f.manager.GetSchedule(context.Background(), s.SellerID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestSyncScheduleManager_UpdateSchedule(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t)
	s := f.newSchedule(t, fulfillment.RetryPolicy{})
	f.schedules.On("FindByID", ctx, s.ID).Return(s, nil)
	f.schedules.On("Save", ctx, s).Return(nil)

	daily := fulfillment.Frequency{Kind: fulfillment.FrequencyKindInterval, Value: "1d"}
	name := "nightly"
	updated, err := f.manager.UpdateSchedule(ctx, s.SellerID, s.ID, ScheduleUpdate{Name: &name, Frequency: &daily})
	require.NoError(t, err)
	assert.Equal(t, "nightly", updated.Name)
	assert.Equal(t, daily, updated.Frequency)

	disabled, err := f.manager.DisableSchedule(ctx, s.SellerID, s.ID)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)
}

func TestSyncScheduleManager_RunSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("completion notifies when asked", func(t *testing.T) {
		f := newScheduleFixture(t)
		s := f.newSchedule(t, fulfillment.RetryPolicy{NotifyOnCompletion: true})
		f.schedules.On("SaveRunState", mock.Anything, s).Return(nil).Twice()
		f.executeReturning(nil).Once()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n fulfillment.Notification) bool {
			return n.Type == fulfillment.NotificationSyncCompleted && n.UserID == s.SellerID &&
				n.Data["itemsSynced"] == 3
		})).Return(nil).Once()

		require.NoError(t, f.manager.RunSchedule(ctx, s))
		assert.Equal(t, fulfillment.ScheduleStateIdle, s.State)
		assert.Equal(t, fulfillment.SyncRunStatusCompleted, s.LastStatus)
		require.NotNil(t, s.LastRunID)
		assert.Equal(t, f.now, *s.LastRunAt)
		f.schedules.AssertExpectations(t)
		f.schedules.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.notifier.AssertExpectations(t)
	})

	t.Run("failure with retries left schedules a retry honoring the provider hint", func(t *testing.T) {
		f := newScheduleFixture(t)
		s := f.newSchedule(t, fulfillment.RetryPolicy{MaxRetries: 2, NotifyOnFailure: true})
		f.schedules.On("SaveRunState", mock.Anything, s).Return(nil)
		f.executeReturning(&fulfillment.RateLimitedError{Provider: "shiphub", RetryAfter: 30 * time.Second}).Once()

		err := f.manager.RunSchedule(ctx, s)
		assert.ErrorIs(t, err, fulfillment.ErrProviderRateLimited)
		assert.Equal(t, 1, s.RetryCount)
		require.NotNil(t, s.NextRetryAt)
		assert.Equal(t, f.now.Add(30*time.Second), *s.NextRetryAt)
		assert.Equal(t, fulfillment.SyncRunStatusFailed, s.LastStatus)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("auth failure is never retried", func(t *testing.T) {
		f := newScheduleFixture(t)
		s := f.newSchedule(t, fulfillment.RetryPolicy{MaxRetries: 3, NotifyOnFailure: true})
		f.schedules.On("SaveRunState", mock.Anything, s).Return(nil)
		f.executeReturning(fmt.Errorf("%w: token revoked", fulfillment.ErrProviderAuth)).Once()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n fulfillment.Notification) bool {
			return n.Type == fulfillment.NotificationSyncFailed
		})).Return(nil).Once()

		err := f.manager.RunSchedule(ctx, s)
		assert.ErrorIs(t, err, fulfillment.ErrProviderAuth)
		assert.Nil(t, s.NextRetryAt)
		assert.Equal(t, 0, s.RetryCount)
		assert.Equal(t, fulfillment.SyncRunStatusFailed, s.LastStatus)
		assert.Equal(t, fulfillment.ScheduleStateIdle, s.State)
		f.notifier.AssertExpectations(t)
	})

	t.Run("permanent failures clear a pending retry", func(t *testing.T) {
		for _, cause := range []error{fulfillment.ErrInvalidWarehouse, fulfillment.ErrMalformedPayload} {
			f := newScheduleFixture(t)
			s := f.newSchedule(t, fulfillment.RetryPolicy{MaxRetries: 3})
			s.RetryCount = 1
			at := f.now
			s.NextRetryAt = &at
			f.schedules.On("SaveRunState", mock.Anything, s).Return(nil)
			f.executeReturning(cause).Once()

			assert.ErrorIs(t, f.manager.RunSchedule(ctx, s), cause)
			assert.Nil(t, s.NextRetryAt, cause.Error())
			assert.Equal(t, 0, s.RetryCount, cause.Error())
		}
	})

	t.Run("exhausted retries notify failure", func(t *testing.T) {
		f := newScheduleFixture(t)
		s := f.newSchedule(t, fulfillment.RetryPolicy{MaxRetries: 0, NotifyOnFailure: true})
		f.schedules.On("SaveRunState", mock.Anything, s).Return(nil)
		f.executeReturning(fulfillment.ErrProviderUnavailable).Once()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n fulfillment.Notification) bool {
			return n.Type == fulfillment.NotificationSyncFailed
		})).Return(nil).Once()

		assert.Error(t, f.manager.RunSchedule(ctx, s))
		assert.Nil(t, s.NextRetryAt)
		assert.Equal(t, 0, s.RetryCount)
		f.notifier.AssertExpectations(t)
	})

	t.Run("held lock skips the tick", func(t *testing.T) {
		f := newScheduleFixture(t)
		s := f.newSchedule(t, fulfillment.RetryPolicy{})
		_, err := f.leases.TryAcquire(ctx, fulfillment.SyncLockKey(s.SellerID, "shiphub"), "other", time.Now(), time.Minute)
		require.NoError(t, err)

		require.NoError(t, f.manager.RunSchedule(ctx, s))
		assert.Equal(t, fulfillment.ScheduleStateIdle, s.State)
		f.executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSyncScheduleManager_RunNow(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t)
	s := f.newSchedule(t, fulfillment.RetryPolicy{})
	f.schedules.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.schedules.On("SaveRunState", mock.Anything, s).Return(nil)
	f.executeReturning(nil).Once()

	run, err := f.manager.RunNow(ctx, s.SellerID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.SyncRunStatusRunning, run.Status)
	assert.Equal(t, fulfillment.SyncTriggerManual, run.Trigger)
	require.NotNil(t, run.ScheduleID)
	assert.Equal(t, s.ID, *run.ScheduleID)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, f.manager.Wait(waitCtx))
	f.executor.AssertExpectations(t)

	t.Run("running schedule is rejected", func(t *testing.T) {
		s.State = fulfillment.ScheduleStateRunning
		_, err := f.manager.RunNow(ctx, s.SellerID, s.ID)
		assert.ErrorIs(t, err, fulfillment.ErrSyncInProgress)
	})
}

func TestSyncScheduleManager_DueSchedules(t *testing.T) {
	f := newScheduleFixture(t)
	due := f.newSchedule(t, fulfillment.RetryPolicy{})
	off := f.newSchedule(t, fulfillment.RetryPolicy{})
	off.Disable(f.now)
	recent := f.newSchedule(t, fulfillment.RetryPolicy{})
	recent.MarkRunning(uuid.New(), f.now.Add(-10*time.Minute))
	recent.MarkCompleted(f.now.Add(-9 * time.Minute))
	broken := f.newSchedule(t, fulfillment.RetryPolicy{})
	broken.Frequency = fulfillment.Frequency{Kind: fulfillment.FrequencyKindCron, Value: "not a cron"}

	f.schedules.On("FindEnabled", mock.Anything).Return([]fulfillment.SyncSchedule{*due, *off, *recent, *broken}, nil)

	got, err := f.manager.DueSchedules(context.Background(), f.now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestSyncScheduleManager_ReapStaleRuns(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t)
	s := f.newSchedule(t, fulfillment.RetryPolicy{})

	run, err := f.tracker.Begin(ctx, s.SellerID, s.ProviderName, &s.ID, fulfillment.SyncTriggerSchedule)
	require.NoError(t, err)
	s.MarkRunning(run.ID, f.now)
	require.NoError(t, f.leases.Release(ctx, fulfillment.SyncLockKey(s.SellerID, s.ProviderName), run.LockHolder))

	f.schedules.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.schedules.On("SaveRunState", mock.Anything, s).Return(nil).Once()

	n, err := f.manager.ReapStaleRuns(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, fulfillment.ScheduleStateIdle, s.State)
	assert.Equal(t, fulfillment.SyncRunStatusFailed, s.LastStatus)
	f.schedules.AssertExpectations(t)
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTransferProcessor struct {
	mock.Mock
}

func (m *MockTransferProcessor) ExecuteDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockTransferProcessor) FailStuck(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockLeasePurger struct {
	mock.Mock
}

func (m *MockLeasePurger) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func TestTransferSweeper_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	transfers := new(MockTransferProcessor)
	leases := new(MockLeasePurger)
	transfers.On("FailStuck", mock.Anything, now).Return(1, nil).Once()
	transfers.On("ExecuteDue", mock.Anything, now).Return(2, nil).Once()
	leases.On("PurgeExpired", mock.Anything, now).Return(3, nil).Once()

	s := NewTransferSweeper(time.Minute, transfers, leases, zap.NewNop())
	s.now = func() time.Time { return now }
	s.Sweep(context.Background())

	transfers.AssertExpectations(t)
	leases.AssertExpectations(t)
}

func TestTransferSweeper_StepFailuresAreIndependent(t *testing.T) {
	transfers := new(MockTransferProcessor)
	leases := new(MockLeasePurger)
	transfers.On("FailStuck", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
	transfers.On("ExecuteDue", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
	leases.On("PurgeExpired", mock.Anything, mock.Anything).Return(0, nil).Once()

	NewTransferSweeper(0, transfers, leases, zap.NewNop()).Sweep(context.Background())

	transfers.AssertExpectations(t)
	leases.AssertExpectations(t)
}

func TestTransferSweeper_StartStop(t *testing.T) {
	transfers := new(MockTransferProcessor)
	s := NewTransferSweeper(10*time.Millisecond, transfers, nil, zap.NewNop())
	swept := make(chan struct{}, 1)
	transfers.On("FailStuck", mock.Anything, mock.Anything).Return(0, nil)
	transfers.On("ExecuteDue", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return(0, nil)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}
	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

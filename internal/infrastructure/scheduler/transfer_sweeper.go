package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TransferProcessor is implemented by the warehouse transfer service
type TransferProcessor interface {
	// ExecuteDue runs scheduled transfers whose time has come
	ExecuteDue(ctx context.Context, now time.Time) (int, error)
	// FailStuck marks transfers processing for too long as failed
	FailStuck(ctx context.Context, now time.Time) (int, error)
}

// LeasePurger deletes expired lease rows
type LeasePurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// TransferSweeper periodically executes due scheduled transfers, fails stuck
// ones and purges expired leases.
type TransferSweeper struct {
	interval  time.Duration
	transfers TransferProcessor
	leases    LeasePurger
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewTransferSweeper creates a sweeper. leases may be nil.
func NewTransferSweeper(interval time.Duration, transfers TransferProcessor, leases LeasePurger, logger *zap.Logger) *TransferSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TransferSweeper{
		interval:  interval,
		transfers: transfers,
		leases:    leases,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the sweep loop
func (s *TransferSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Transfer sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop stops the sweep loop
func (s *TransferSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Transfer sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *TransferSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Each step runs even when an earlier one failed.
func (s *TransferSweeper) Sweep(ctx context.Context) {
	now := s.now().UTC()

	if n, err := s.transfers.FailStuck(ctx, now); err != nil {
		s.logger.Error("Failed to sweep stuck transfers", zap.Error(err))
	} else if n > 0 {
		s.logger.Warn("Marked stuck transfers as failed", zap.Int("count", n))
	}

	if n, err := s.transfers.ExecuteDue(ctx, now); err != nil {
		s.logger.Error("Failed to execute scheduled transfers", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("Executed scheduled transfers", zap.Int("count", n))
	}

	if s.leases == nil {
		return
	}
	if n, err := s.leases.PurgeExpired(ctx, now); err != nil {
		s.logger.Error("Failed to purge expired leases", zap.Error(err))
	} else if n > 0 {
		s.logger.Debug("Purged expired leases", zap.Int("count", n))
	}
}

package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// DeliveryAttempter makes one delivery attempt and persists its outcome
type DeliveryAttempter interface {
	Attempt(ctx context.Context, delivery *fulfillment.WebhookDelivery) error
}

// DeliveryProcessorConfig holds configuration for the delivery processor
type DeliveryProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// ClaimLease pushes a claimed row's next attempt out so another
	// processor does not pick it up while the attempt is in flight
	ClaimLease  time.Duration
	Concurrency int
}

// DefaultDeliveryProcessorConfig returns default configuration
func DefaultDeliveryProcessorConfig() DeliveryProcessorConfig {
	return DeliveryProcessorConfig{
		BatchSize:    50,
		PollInterval: 10 * time.Second,
		ClaimLease:   time.Minute,
		Concurrency:  8,
	}
}

// DeliveryProcessor polls due webhook deliveries and hands them to the
// attempter. Attempts within a batch run concurrently so a slow subscriber
// does not hold up the others.
type DeliveryProcessor struct {
	repo      fulfillment.DeliveryRepository
	attempter DeliveryAttempter
	config    DeliveryProcessorConfig
	logger    *zap.Logger
	now       func() time.Time

	trigger chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDeliveryProcessor creates a new delivery processor
func NewDeliveryProcessor(
	repo fulfillment.DeliveryRepository,
	attempter DeliveryAttempter,
	config DeliveryProcessorConfig,
	logger *zap.Logger,
) *DeliveryProcessor {
	defaults := DefaultDeliveryProcessorConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.ClaimLease <= 0 {
		config.ClaimLease = defaults.ClaimLease
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	return &DeliveryProcessor{
		repo:      repo,
		attempter: attempter,
		config:    config,
		logger:    logger,
		now:       time.Now,
		trigger:   make(chan struct{}, 1),
	}
}

// Start starts the background polling loop
func (p *DeliveryProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	p.logger.Info("Webhook delivery processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("concurrency", p.config.Concurrency),
	)
	return nil
}

// Stop gracefully stops the processor, waiting for in-flight attempts
func (p *DeliveryProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Webhook delivery processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger asks the loop to poll now instead of waiting for the next tick.
// It never blocks; triggers arriving during a poll collapse into one.
func (p *DeliveryProcessor) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

func (p *DeliveryProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.trigger:
		}
		// Drain full batches before sleeping again
		for ctx.Err() == nil {
			if p.ProcessDue(ctx) < p.config.BatchSize {
				break
			}
		}
	}
}

// ProcessDue claims one batch of due deliveries and attempts them. It
// returns the number of deliveries claimed.
func (p *DeliveryProcessor) ProcessDue(ctx context.Context) int {
	claimed, err := p.repo.ClaimDue(ctx, p.now().UTC(), p.config.BatchSize, p.config.ClaimLease)
	if err != nil {
		p.logger.Error("Failed to claim due webhook deliveries", zap.Error(err))
		return 0
	}
	if len(claimed) == 0 {
		return 0
	}

	sem := make(chan struct{}, p.config.Concurrency)
	var wg sync.WaitGroup
	for i := range claimed {
		d := &claimed[i]
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			if err := p.attempter.Attempt(ctx, d); err != nil {
				p.logger.Error("Failed to record webhook delivery attempt",
					zap.String("delivery_id", d.ID.String()),
					zap.String("event_id", d.EventID.String()),
					zap.String("subscriber_url", d.SubscriberURL),
					zap.Error(err),
				)
			}
		}()
	}
	wg.Wait()

	p.logger.Debug("Processed webhook delivery batch", zap.Int("claimed", len(claimed)))
	return len(claimed)
}

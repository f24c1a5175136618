package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/scheduler"
	"github.com/fulfillsync/backend/internal/infrastructure/telemetry"
)

// ProcessingTimedOut is the error message of transfers failed by the sweeper
const ProcessingTimedOut = "processing timed out"

// ConnectionChecker resolves credentials and reports connection status
type ConnectionChecker interface {
	fulfillment.CredentialResolver
	IsConnected(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (bool, error)
}

// TransferConfig tunes the transfer saga
type TransferConfig struct {
	Fees fulfillment.FeePolicy
	// LockLease bounds how long a stock lock survives a crashed holder
	LockLease time.Duration
	// MaxProcessingDuration after which a processing transfer is failed
	MaxProcessingDuration time.Duration
	// SweepBatch caps how many rows one sweep touches
	SweepBatch int
}

// TransferInput requests a transfer
type TransferInput struct {
	SellerID          uuid.UUID
	ProductID         uuid.UUID
	SourceWarehouseID uuid.UUID
	TargetWarehouseID uuid.UUID
	Quantity          int64
	Sandbox           bool
	ScheduledAt       *time.Time
}

// transferRoute is the validated pair of warehouses of a transfer
type transferRoute struct {
	source *fulfillment.Warehouse
	target *fulfillment.Warehouse
	client fulfillment.ProviderClient
	sku    string
}

// WarehouseTransferService moves stock between warehouses as a saga. Stock
// is only written after the source provider confirms the move, so a
// provider failure never leaves a partial mutation behind.
type WarehouseTransferService struct {
	transfers   fulfillment.TransferRepository
	ledger      fulfillment.TransferLedger
	warehouses  fulfillment.WarehouseRepository
	listings    fulfillment.ListingRepository
	stock       fulfillment.StockRepository
	providers   fulfillment.ProviderRegistry
	connections ConnectionChecker
	gate        *ProviderGate
	tracker     *SyncProgressTracker
	publisher   shared.EventPublisher
	notifier    fulfillment.NotificationSender
	metrics     Metrics
	config      TransferConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewWarehouseTransferService creates a transfer service
func NewWarehouseTransferService(
	transfers fulfillment.TransferRepository,
	ledger fulfillment.TransferLedger,
	warehouses fulfillment.WarehouseRepository,
	listings fulfillment.ListingRepository,
	stock fulfillment.StockRepository,
	providers fulfillment.ProviderRegistry,
	connections ConnectionChecker,
	gate *ProviderGate,
	tracker *SyncProgressTracker,
	publisher shared.EventPublisher,
	notifier fulfillment.NotificationSender,
	metrics Metrics,
	config TransferConfig,
	logger *zap.Logger,
) *WarehouseTransferService {
	if config.Fees.UnitFee.IsZero() {
		config.Fees.UnitFee = fulfillment.DefaultUnitFee
	}
	if config.LockLease <= 0 {
		config.LockLease = 2 * time.Minute
	}
	if config.MaxProcessingDuration <= 0 {
		config.MaxProcessingDuration = 15 * time.Minute
	}
	if config.SweepBatch <= 0 {
		config.SweepBatch = 100
	}
	return &WarehouseTransferService{
		transfers:   transfers,
		ledger:      ledger,
		warehouses:  warehouses,
		listings:    listings,
		stock:       stock,
		providers:   providers,
		connections: connections,
		gate:        gate,
		tracker:     tracker,
		publisher:   publisher,
		notifier:    notifier,
		metrics:     metricsOrNop(metrics),
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// Transfer validates, prices and either schedules or executes a transfer.
// InsufficientStock and InvalidWarehouse are returned before anything is
// persisted. Once a transfer is persisted its outcome is carried by its
// status, so provider failures return the failed transfer without error.
func (s *WarehouseTransferService) Transfer(ctx context.Context, in TransferInput) (*fulfillment.WarehouseTransfer, error) {
	now := s.now().UTC()
	t, err := fulfillment.NewWarehouseTransfer(in.SellerID, in.ProductID, in.SourceWarehouseID, in.TargetWarehouseID, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	t.Sandbox = in.Sandbox
	t.RequestID = logger.GetRequestID(ctx)

	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "transfer",
		telemetry.WithAttribute(telemetry.SpanAttrTransferID, t.ID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrSellerID, t.SellerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, t.Quantity),
	)
	defer span.End()

	route, err := s.validate(ctx, t)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	release, err := s.lockAndCheck(ctx, t)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	t.TransferFee = s.config.Fees.Calculate(route.source.ProviderName, route.target.ProviderName, t.Quantity)

	if in.ScheduledAt != nil && in.ScheduledAt.After(now) {
		if err := t.Schedule(in.ScheduledAt.UTC(), now); err != nil {
			return nil, err
		}
		if err := s.transfers.Create(ctx, t); err != nil {
			return nil, err
		}
		s.metrics.RecordTransfer(ctx, t.Status)
		logger.WithLogger(ctx, s.logger).Info("Warehouse transfer scheduled",
			zap.String("transfer_id", t.ID.String()),
			zap.Time("scheduled_at", *t.ScheduledAt),
		)
		return t, nil
	}

	if err := t.StartProcessing(now); err != nil {
		return nil, err
	}
	if err := s.transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	s.execute(ctx, t, route)
	return t, nil
}

// validate checks that both warehouses belong to the seller, are active and
// sit behind a registered, connected provider
func (s *WarehouseTransferService) validate(ctx context.Context, t *fulfillment.WarehouseTransfer) (*transferRoute, error) {
	source, err := s.loadWarehouse(ctx, t.SellerID, t.SourceWarehouseID, "source")
	if err != nil {
		return nil, err
	}
	target, err := s.loadWarehouse(ctx, t.SellerID, t.TargetWarehouseID, "target")
	if err != nil {
		return nil, err
	}
	client, err := s.providers.Get(source.ProviderName)
	if err != nil {
		return nil, fmt.Errorf("%w: source provider %s is not enabled", fulfillment.ErrInvalidWarehouse, source.ProviderName)
	}
	if _, err := s.providers.Get(target.ProviderName); err != nil {
		return nil, fmt.Errorf("%w: target provider %s is not enabled", fulfillment.ErrInvalidWarehouse, target.ProviderName)
	}
	for _, name := range []fulfillment.ProviderName{source.ProviderName, target.ProviderName} {
		ok, err := s.connections.IsConnected(ctx, t.SellerID, name, t.Sandbox)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s is not connected", fulfillment.ErrInvalidWarehouse, name)
		}
	}
	listing, err := s.listings.FindByProductAndWarehouse(ctx, t.ProductID, source.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: product is not listed in the source warehouse", fulfillment.ErrInvalidWarehouse)
		}
		return nil, err
	}
	return &transferRoute{source: source, target: target, client: client, sku: listing.SKU}, nil
}

func (s *WarehouseTransferService) loadWarehouse(ctx context.Context, sellerID, id uuid.UUID, role string) (*fulfillment.Warehouse, error) {
	w, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s warehouse not found", fulfillment.ErrInvalidWarehouse, role)
		}
		return nil, err
	}
	if !w.BelongsTo(sellerID) {
		return nil, fmt.Errorf("%w: %s warehouse not found", fulfillment.ErrInvalidWarehouse, role)
	}
	if !w.Active {
		return nil, fmt.Errorf("%w: %s warehouse is inactive", fulfillment.ErrInvalidWarehouse, role)
	}
	return w, nil
}

// lockAndCheck takes the source stock lock and verifies availability. On
// error the lock is already released.
func (s *WarehouseTransferService) lockAndCheck(ctx context.Context, t *fulfillment.WarehouseTransfer) (func(), error) {
	release, err := s.tracker.Acquire(ctx, fulfillment.StockLockKey(t.ProductID, t.SourceWarehouseID), s.config.LockLease)
	if err != nil {
		if errors.Is(err, fulfillment.ErrLockHeld) {
			return nil, fmt.Errorf("%w: source stock is locked by another transfer", shared.ErrConcurrencyConflict)
		}
		return nil, err
	}
	level, err := s.stock.Get(ctx, t.ProductID, t.SourceWarehouseID)
	var available int64
	switch {
	case err == nil:
		available = level.Available
	case errors.Is(err, shared.ErrNotFound):
	default:
		release()
		return nil, err
	}
	if t.Quantity > available {
		release()
		return nil, fmt.Errorf("%w: %d available, %d requested", fulfillment.ErrInsufficientStock, available, t.Quantity)
	}
	return release, nil
}

// execute calls the source provider and drives a processing transfer to a
// terminal state. The stock lock must be held.
func (s *WarehouseTransferService) execute(ctx context.Context, t *fulfillment.WarehouseTransfer, route *transferRoute) {
	log := logger.WithLogger(ctx, s.logger).With(
		zap.String("transfer_id", t.ID.String()),
		zap.String("seller_id", t.SellerID.String()),
		zap.String("source_provider", route.source.ProviderName.String()),
	)

	result, err := s.callProvider(ctx, t, route)
	wctx := context.WithoutCancel(ctx)
	now := s.now().UTC()
	if err == nil {
		if cerr := t.Complete(result.ProviderTransactionID, now); cerr != nil {
			err = cerr
		} else if cerr := s.ledger.CommitTransfer(wctx, t); cerr != nil {
			// The provider moved the stock but the local books did not follow
			log.Error("Provider confirmed transfer but stock commit failed",
				zap.String("provider_transaction_id", result.ProviderTransactionID),
				zap.Error(cerr),
			)
			t.Status = fulfillment.TransferStatusProcessing
			err = fmt.Errorf("stock commit failed after provider confirmation %s: %w", result.ProviderTransactionID, cerr)
		}
	}
	if err != nil {
		if ferr := t.Fail(err.Error(), now); ferr != nil {
			log.Error("Failed to mark transfer failed", zap.Error(ferr))
		}
		if uerr := s.transfers.Update(wctx, t); uerr != nil {
			log.Error("Failed to save failed transfer", zap.Error(uerr))
		}
		log.Warn("Warehouse transfer failed", zap.String("error_code", fulfillment.Classify(err)), zap.Error(err))
	} else {
		log.Info("Warehouse transfer completed",
			zap.Int64("quantity", t.Quantity),
			zap.String("transfer_fee", t.TransferFee.StringFixed(2)),
			zap.String("provider_transaction_id", t.ProviderTransactionID),
		)
	}
	s.finished(wctx, t)
}

func (s *WarehouseTransferService) callProvider(ctx context.Context, t *fulfillment.WarehouseTransfer, route *transferRoute) (*fulfillment.TransferResult, error) {
	creds, err := s.connections.Resolve(ctx, t.SellerID, route.source.ProviderName, t.Sandbox)
	if err != nil {
		return nil, err
	}
	var result *fulfillment.TransferResult
	err = s.gate.Call(ctx, route.source.ProviderName, "transfer_stock", func(ctx context.Context) error {
		var err error
		result, err = route.client.TransferStock(ctx, creds, fulfillment.TransferRequest{
			SourceRef:      route.source.ProviderRef,
			TargetRef:      route.target.ProviderRef,
			SKU:            route.sku,
			Quantity:       t.Quantity,
			IdempotencyKey: t.ID.String(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty transfer result", fulfillment.ErrProviderResponse)
	}
	return result, nil
}

// finished publishes the terminal transfer and requests a notification
func (s *WarehouseTransferService) finished(ctx context.Context, t *fulfillment.WarehouseTransfer) {
	s.metrics.RecordTransfer(ctx, t.Status)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, fulfillment.NewTransferFinishedEvent(t)); err != nil {
			logger.WithLogger(ctx, s.logger).Error("Failed to publish transfer event",
				zap.String("transfer_id", t.ID.String()),
				zap.Error(err),
			)
		}
	}
	n := fulfillment.Notification{
		UserID:   t.SellerID,
		Type:     fulfillment.NotificationTransferCompleted,
		Title:    "Warehouse transfer completed",
		Message:  fmt.Sprintf("%d units moved between warehouses.", t.Quantity),
		Channels: []string{fulfillment.ChannelInApp},
		Data: map[string]any{
			"transferId":  t.ID.String(),
			"productId":   t.ProductID.String(),
			"quantity":    t.Quantity,
			"transferFee": t.TransferFee.StringFixed(2),
		},
	}
	if t.Status != fulfillment.TransferStatusCompleted {
		n.Type = fulfillment.NotificationTransferFailed
		n.Title = "Warehouse transfer failed"
		n.Message = t.ErrorMessage
		n.Channels = []string{fulfillment.ChannelEmail, fulfillment.ChannelInApp}
	}
	notify(ctx, s.notifier, s.logger, n)
}

// Cancel cancels a transfer that is still scheduled
func (s *WarehouseTransferService) Cancel(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WarehouseTransfer, error) {
	t, err := s.Get(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if err := t.Cancel(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.transfers.Update(ctx, t); err != nil {
		return nil, err
	}
	s.metrics.RecordTransfer(ctx, t.Status)
	logger.WithLogger(ctx, s.logger).Info("Warehouse transfer cancelled", zap.String("transfer_id", t.ID.String()))
	return t, nil
}

// Get returns a transfer owned by sellerID
func (s *WarehouseTransferService) Get(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WarehouseTransfer, error) {
	t, err := s.transfers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.BelongsTo(sellerID) {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

// List returns the seller's transfers, newest first
func (s *WarehouseTransferService) List(ctx context.Context, filter fulfillment.TransferFilter) ([]fulfillment.WarehouseTransfer, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.transfers.List(ctx, filter)
}

// ExecuteDue runs scheduled transfers whose time has come. Each one is
// re-validated first; a transfer that no longer validates fails without a
// provider call.
func (s *WarehouseTransferService) ExecuteDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.transfers.FindDueScheduled(ctx, now, s.config.SweepBatch)
	if err != nil {
		return 0, err
	}
	executed := 0
	for i := range due {
		if ctx.Err() != nil {
			return executed, ctx.Err()
		}
		t := &due[i]
		tctx := logger.ContextWithRequestID(ctx, t.RequestID)
		if s.executeScheduled(tctx, t) {
			executed++
		}
	}
	return executed, nil
}

// executeScheduled reports whether the transfer reached a terminal state
func (s *WarehouseTransferService) executeScheduled(ctx context.Context, t *fulfillment.WarehouseTransfer) bool {
	route, err := s.validate(ctx, t)
	if err == nil {
		var release func()
		release, err = s.lockAndCheck(ctx, t)
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// Retried on the next sweep
			return false
		}
		if err == nil {
			defer release()
			if err = t.StartProcessing(s.now().UTC()); err == nil {
				if err = s.transfers.Update(ctx, t); err == nil {
					s.execute(ctx, t, route)
					return true
				}
			}
		}
	}

	log := logger.WithLogger(ctx, s.logger).With(zap.String("transfer_id", t.ID.String()))
	if ferr := t.Fail(err.Error(), s.now().UTC()); ferr != nil {
		log.Error("Failed to fail scheduled transfer", zap.Error(ferr))
		return false
	}
	if uerr := s.transfers.Update(context.WithoutCancel(ctx), t); uerr != nil {
		log.Error("Failed to save failed transfer", zap.Error(uerr))
		return false
	}
	log.Warn("Scheduled transfer failed validation", zap.Error(err))
	s.finished(ctx, t)
	return true
}

// FailStuck fails transfers that have been processing longer than the
// configured maximum
func (s *WarehouseTransferService) FailStuck(ctx context.Context, now time.Time) (int, error) {
	stuck, err := s.transfers.FindStuckProcessing(ctx, now.Add(-s.config.MaxProcessingDuration), s.config.SweepBatch)
	if err != nil {
		return 0, err
	}
	failed := 0
	for i := range stuck {
		t := &stuck[i]
		if err := t.Fail(ProcessingTimedOut, now); err != nil {
			continue
		}
		if err := s.transfers.Update(ctx, t); err != nil {
			logger.WithLogger(ctx, s.logger).Error("Failed to fail stuck transfer",
				zap.String("transfer_id", t.ID.String()),
				zap.Error(err),
			)
			continue
		}
		logger.WithLogger(ctx, s.logger).Warn("Failed stuck warehouse transfer",
			zap.String("transfer_id", t.ID.String()),
			zap.Timep("started_at", t.StartedAt),
		)
		s.finished(ctx, t)
		failed++
	}
	return failed, nil
}

var _ scheduler.TransferProcessor = (*WarehouseTransferService)(nil)

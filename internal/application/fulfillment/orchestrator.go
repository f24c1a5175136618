package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/telemetry"
)

// OrchestratorConfig tunes listing selection
type OrchestratorConfig struct {
	// IncrementalStaleness selects listings for non-full syncs
	IncrementalStaleness time.Duration
}

// SyncRequest asks for an inventory sync of one seller
type SyncRequest struct {
	SellerID uuid.UUID
	// Providers to sync; empty means every registered provider
	Providers []fulfillment.ProviderName
	Options   fulfillment.SyncOptions
	Trigger   fulfillment.SyncTrigger
}

// ProviderSync is the outcome of one provider that finished its run
type ProviderSync struct {
	Provider    fulfillment.ProviderName
	RunID       uuid.UUID
	Status      fulfillment.SyncRunStatus
	ItemsSynced int
	ItemsFailed int
	Summary     string
	Duration    time.Duration
}

// ProviderFailure is the outcome of one provider whose sync failed
type ProviderFailure struct {
	Provider   fulfillment.ProviderName
	RunID      *uuid.UUID
	Code       string
	Message    string
	RetryAfter time.Duration
	Err        error
}

// SyncResult aggregates a multi-provider sync
type SyncResult struct {
	RequestID string
	SyncCount int
	FailCount int
	Syncs     []ProviderSync
	Failures  []ProviderFailure
}

// OrderRequest asks a provider to fulfill a paid order
type OrderRequest struct {
	SellerID      uuid.UUID
	Provider      fulfillment.ProviderName
	OrderID       string
	Lines         []fulfillment.OrderLine
	ShipTo        fulfillment.Address
	ShippingSpeed string
	Sandbox       bool
}

// FulfillmentOrchestrator fans sync work out to providers and aggregates the
// outcomes. One provider's failure never aborts another's sync.
type FulfillmentOrchestrator struct {
	providers   ProviderDirectory
	credentials fulfillment.CredentialResolver
	gate        *ProviderGate
	tracker     *SyncProgressTracker
	warehouses  fulfillment.WarehouseRepository
	listings    fulfillment.ListingRepository
	stock       fulfillment.StockRepository
	publisher   shared.EventPublisher
	notifier    fulfillment.NotificationSender
	metrics     Metrics
	config      OrchestratorConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewFulfillmentOrchestrator creates an orchestrator
func NewFulfillmentOrchestrator(
	providers ProviderDirectory,
	credentials fulfillment.CredentialResolver,
	gate *ProviderGate,
	tracker *SyncProgressTracker,
	warehouses fulfillment.WarehouseRepository,
	listings fulfillment.ListingRepository,
	stock fulfillment.StockRepository,
	publisher shared.EventPublisher,
	notifier fulfillment.NotificationSender,
	metrics Metrics,
	config OrchestratorConfig,
	logger *zap.Logger,
) *FulfillmentOrchestrator {
	return &FulfillmentOrchestrator{
		providers:   providers,
		credentials: credentials,
		gate:        gate,
		tracker:     tracker,
		warehouses:  warehouses,
		listings:    listings,
		stock:       stock,
		publisher:   publisher,
		notifier:    notifier,
		metrics:     metricsOrNop(metrics),
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// SyncInventory syncs every requested provider concurrently. Unknown names
// reject the whole request before any work starts.
func (o *FulfillmentOrchestrator) SyncInventory(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	if req.SellerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("seller id is required")
	}
	names, err := o.resolveProviders(req.Providers)
	if err != nil {
		return nil, err
	}
	if req.Trigger == "" {
		req.Trigger = fulfillment.SyncTriggerAPI
	}

	type outcome struct {
		run *fulfillment.SyncRun
		err error
	}
	outcomes := make([]outcome, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			run, err := o.tracker.Begin(ctx, req.SellerID, name, nil, req.Trigger)
			if err == nil {
				err = o.Execute(ctx, run, req.Options, fulfillment.ScheduleFilters{})
			}
			outcomes[i] = outcome{run: run, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &SyncResult{
		RequestID: logger.GetRequestID(ctx),
		Syncs:     make([]ProviderSync, 0, len(names)),
		Failures:  make([]ProviderFailure, 0),
	}
	for i, oc := range outcomes {
		if oc.err != nil {
			f := ProviderFailure{
				Provider: names[i],
				Code:     syncFailureCode(oc.err),
				Message:  oc.err.Error(),
				Err:      oc.err,
			}
			if oc.run != nil {
				f.RunID = &oc.run.ID
			}
			f.RetryAfter, _ = fulfillment.RetryAfter(oc.err)
			result.Failures = append(result.Failures, f)
			continue
		}
		result.Syncs = append(result.Syncs, ProviderSync{
			Provider:    names[i],
			RunID:       oc.run.ID,
			Status:      oc.run.Status,
			ItemsSynced: oc.run.ItemsSynced,
			ItemsFailed: oc.run.ItemsFailed,
			Summary:     oc.run.ErrorSummary,
			Duration:    oc.run.Duration(),
		})
	}
	result.SyncCount = len(result.Syncs)
	result.FailCount = len(result.Failures)

	logger.WithLogger(ctx, o.logger).Info("Inventory sync finished",
		zap.String("seller_id", req.SellerID.String()),
		zap.Int("sync_count", result.SyncCount),
		zap.Int("fail_count", result.FailCount),
	)
	return result, nil
}

func syncFailureCode(err error) string {
	if errors.Is(err, fulfillment.ErrSyncInProgress) {
		return "sync_in_progress"
	}
	return fulfillment.Classify(err)
}

func (o *FulfillmentOrchestrator) resolveProviders(requested []fulfillment.ProviderName) ([]fulfillment.ProviderName, error) {
	if len(requested) == 0 {
		return o.providers.Names(), nil
	}
	seen := make(map[fulfillment.ProviderName]bool, len(requested))
	names := make([]fulfillment.ProviderName, 0, len(requested))
	for _, n := range requested {
		if seen[n] {
			continue
		}
		if _, err := o.providers.Get(n); err != nil {
			return nil, err
		}
		seen[n] = true
		names = append(names, n)
	}
	return names, nil
}

// Execute reconciles a started run against its provider and records the
// outcome. The run is always terminal when Execute returns.
func (o *FulfillmentOrchestrator) Execute(ctx context.Context, run *fulfillment.SyncRun, opts fulfillment.SyncOptions, filters fulfillment.ScheduleFilters) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "orchestrator", "sync",
		telemetry.WithAttribute(telemetry.SpanAttrRunID, run.ID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrSellerID, run.SellerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrProvider, run.ProviderName.String()),
	)
	defer span.End()
	log := logger.WithLogger(ctx, o.logger).With(
		zap.String("sync_run_id", run.ID.String()),
		zap.String("seller_id", run.SellerID.String()),
		zap.String("provider", run.ProviderName.String()),
	)

	synced, failed, summary, err := o.reconcile(ctx, run, opts, filters)
	telemetry.RecordError(span, err)
	if ferr := o.tracker.Finish(ctx, run, synced, failed, summary, err); ferr != nil {
		log.Error("Failed to record sync run outcome", zap.Error(ferr))
		if err == nil {
			err = ferr
		}
	}

	o.metrics.RecordSyncRun(ctx, run.ProviderName, run.Status)
	o.metrics.RecordSyncItems(ctx, run.ProviderName, synced, failed)
	if err != nil {
		log.Warn("Sync run failed",
			zap.String("error_code", fulfillment.Classify(err)),
			zap.Int("items_synced", synced),
			zap.Int("items_failed", failed),
			zap.Error(err),
		)
	} else {
		log.Info("Sync run completed",
			zap.Int("items_synced", synced),
			zap.Int("items_failed", failed),
			zap.Duration("duration", run.Duration()),
		)
	}

	if run.Status.IsFinal() && o.publisher != nil {
		if perr := o.publisher.Publish(ctx, fulfillment.NewSyncRunFinishedEvent(run)); perr != nil {
			log.Error("Failed to publish sync run event", zap.Error(perr))
		}
	}
	if errors.Is(err, fulfillment.ErrProviderAuth) {
		notify(ctx, o.notifier, o.logger, fulfillment.Notification{
			UserID:   run.SellerID,
			Type:     fulfillment.NotificationReconnectRequired,
			Title:    fmt.Sprintf("Reconnect %s", run.ProviderName.DisplayName()),
			Message:  fmt.Sprintf("Inventory sync with %s stopped because the connection is no longer authorized.", run.ProviderName.DisplayName()),
			Channels: []string{fulfillment.ChannelEmail, fulfillment.ChannelInApp},
			Data:     map[string]any{"provider": run.ProviderName.String(), "syncRunId": run.ID.String()},
		})
	}
	return err
}

// reconcile fetches provider stock for the selected listings and writes it
// into StockLevel. Per-listing problems are counted; only provider call
// failures fail the run.
func (o *FulfillmentOrchestrator) reconcile(
	ctx context.Context,
	run *fulfillment.SyncRun,
	opts fulfillment.SyncOptions,
	filters fulfillment.ScheduleFilters,
) (synced, failed int, summary string, err error) {
	client, err := o.providers.Get(run.ProviderName)
	if err != nil {
		return 0, 0, "", err
	}
	creds, err := o.credentials.Resolve(ctx, run.SellerID, run.ProviderName, opts.Sandbox)
	if err != nil {
		return 0, 0, "", err
	}

	now := o.now().UTC()
	filter := fulfillment.ListingFilter{WarehouseIDs: filters.WarehouseIDs, Categories: filters.Categories}
	if !opts.FullSync && o.config.IncrementalStaleness > 0 {
		staleBefore := now.Add(-o.config.IncrementalStaleness)
		filter.StaleBefore = &staleBefore
	}
	listings, err := o.listings.FindForSync(ctx, run.SellerID, run.ProviderName, filter)
	if err != nil {
		return 0, 0, "", err
	}
	if len(listings) == 0 {
		return 0, 0, "", nil
	}

	warehouses, err := o.warehouses.FindBySeller(ctx, run.SellerID)
	if err != nil {
		return 0, 0, "", err
	}
	whRefs := make(map[uuid.UUID]string, len(warehouses))
	for _, w := range warehouses {
		if w.Active && w.ProviderName == run.ProviderName {
			whRefs[w.ID] = w.ProviderRef
		}
	}

	refs := make([]fulfillment.ProductRef, 0, len(listings))
	orphaned := 0
	for i := range listings {
		ref, ok := whRefs[listings[i].WarehouseID]
		if !ok {
			orphaned++
			continue
		}
		refs = append(refs, listings[i].Ref(ref))
	}

	items, err := o.fetchInventory(ctx, client, creds, refs)
	if err != nil {
		return 0, 0, "", err
	}
	byKey := make(map[string]fulfillment.InventoryItem, len(items))
	for _, it := range items {
		byKey[inventoryKey(it.WarehouseRef, it.SKU)] = it
		if _, ok := byKey[inventoryKey("", it.SKU)]; !ok {
			byKey[inventoryKey("", it.SKU)] = it
		}
	}

	missing := 0
	syncedIDs := make([]uuid.UUID, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		whRef, ok := whRefs[l.WarehouseID]
		if !ok {
			failed++
			continue
		}
		item, ok := byKey[inventoryKey(whRef, l.SKU)]
		if !ok {
			item, ok = byKey[inventoryKey("", l.SKU)]
		}
		if !ok {
			missing++
			failed++
			continue
		}
		if err := o.applyLevel(ctx, l, item, opts.ForceUpdate, now); err != nil {
			logger.WithLogger(ctx, o.logger).Warn("Failed to store stock level",
				zap.String("sync_run_id", run.ID.String()),
				zap.String("sku", l.SKU),
				zap.Error(err),
			)
			failed++
			continue
		}
		synced++
		syncedIDs = append(syncedIDs, l.ID)
	}

	if len(syncedIDs) > 0 {
		if err := o.listings.MarkSynced(ctx, syncedIDs, now); err != nil {
			logger.WithLogger(ctx, o.logger).Warn("Failed to mark listings synced", zap.Error(err))
		}
	}
	if failed > 0 {
		summary = fmt.Sprintf("%d of %d listings failed (%d missing from provider response, %d without an active warehouse)",
			failed, len(listings), missing, orphaned)
	}
	return synced, failed, summary, nil
}

func inventoryKey(warehouseRef, sku string) string {
	return warehouseRef + "\x00" + sku
}

// applyLevel upserts a stock line. Unchanged lines are skipped unless
// forceUpdate is set; they still count as synced.
func (o *FulfillmentOrchestrator) applyLevel(ctx context.Context, l *fulfillment.ProductListing, item fulfillment.InventoryItem, forceUpdate bool, now time.Time) error {
	level, err := o.stock.Get(ctx, l.ProductID, l.WarehouseID)
	switch {
	case err == nil:
		if !forceUpdate && !level.Changed(item) {
			return nil
		}
	case errors.Is(err, shared.ErrNotFound):
		level = &fulfillment.StockLevel{SellerID: l.SellerID, ProductID: l.ProductID, WarehouseID: l.WarehouseID}
	default:
		return err
	}
	level.Quantity = item.Quantity
	level.Available = item.AvailableQuantity
	level.UpdatedAt = now
	return o.stock.Upsert(ctx, level)
}

func (o *FulfillmentOrchestrator) fetchInventory(
	ctx context.Context,
	client fulfillment.ProviderClient,
	creds fulfillment.Credentials,
	refs []fulfillment.ProductRef,
) ([]fulfillment.InventoryItem, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var items []fulfillment.InventoryItem
	err := o.gate.Call(ctx, client.Name(), "get_inventory", func(ctx context.Context) error {
		var err error
		items, err = client.GetInventory(ctx, creds, refs)
		return err
	})
	return items, err
}

// ProcessOrder creates a provider-side fulfillment order. It is not retried
// here; the payment webhook path decides what to do with a failure.
func (o *FulfillmentOrchestrator) ProcessOrder(ctx context.Context, req OrderRequest) (*fulfillment.FulfillmentOrderResult, error) {
	if req.OrderID == "" || len(req.Lines) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("order id and at least one line are required")
	}
	for _, line := range req.Lines {
		if line.SKU == "" || line.Quantity <= 0 {
			return nil, shared.ErrInvalidInput.WithMessage("order lines need a sku and a positive quantity")
		}
	}
	fulfiller, err := o.providers.Fulfiller(req.Provider)
	if err != nil {
		return nil, err
	}
	creds, err := o.credentials.Resolve(ctx, req.SellerID, req.Provider, req.Sandbox)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "orchestrator", "process_order",
		telemetry.WithAttribute(telemetry.SpanAttrSellerID, req.SellerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrProvider, req.Provider.String()),
	)
	defer span.End()

	var result *fulfillment.FulfillmentOrderResult
	err = o.gate.Call(ctx, req.Provider, "create_fulfillment_order", func(ctx context.Context) error {
		var err error
		result, err = fulfiller.CreateFulfillmentOrder(ctx, creds, fulfillment.FulfillmentOrderRequest{
			OrderID:        req.OrderID,
			Lines:          req.Lines,
			ShipTo:         req.ShipTo,
			ShippingSpeed:  req.ShippingSpeed,
			IdempotencyKey: "order-" + req.OrderID,
		})
		return err
	})
	log := logger.WithLogger(ctx, o.logger).With(
		zap.String("seller_id", req.SellerID.String()),
		zap.String("provider", req.Provider.String()),
		zap.String("order_id", req.OrderID),
	)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Warn("Fulfillment order failed", zap.String("error_code", fulfillment.Classify(err)), zap.Error(err))
		return nil, err
	}
	log.Info("Fulfillment order created", zap.String("provider_order_id", result.ProviderOrderID))
	return result, nil
}

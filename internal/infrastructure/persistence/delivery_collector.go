package persistence

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

const deliveryCountTimeout = 5 * time.Second

// deliveryStatuses are always exported so a drained dead-letter queue reads 0
var deliveryStatuses = []fulfillment.DeliveryStatus{
	fulfillment.DeliveryStatusPending,
	fulfillment.DeliveryStatusDelivered,
	fulfillment.DeliveryStatusDeadLettered,
}

// DeliveryBacklogCollector exports the outbound webhook deliveries per
// status, counted at scrape time
type DeliveryBacklogCollector struct {
	repo *GormDeliveryRepository
	desc *prometheus.Desc
}

// NewDeliveryBacklogCollector creates the fs_webhook_deliveries gauge
func NewDeliveryBacklogCollector(repo *GormDeliveryRepository) *DeliveryBacklogCollector {
	return &DeliveryBacklogCollector{
		repo: repo,
		desc: prometheus.NewDesc(
			"fs_webhook_deliveries",
			"Outbound webhook deliveries by status",
			[]string{"status"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *DeliveryBacklogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. A failed count is reported as an
// invalid metric so the scrape shows the error.
func (c *DeliveryBacklogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryCountTimeout)
	defer cancel()

	counts, err := c.repo.CountByStatus(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	for _, status := range deliveryStatuses {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(counts[status]), string(status))
	}
}

var _ prometheus.Collector = (*DeliveryBacklogCollector)(nil)

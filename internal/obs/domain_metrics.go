package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts order placement outcomes.
	OrdersPlacedTotal *prometheus.CounterVec
	// OrderStatusTransitionsTotal counts administrative status transitions.
	OrderStatusTransitionsTotal *prometheus.CounterVec
	// LowStockAlertsGauge tracks the number of products currently flagged low
	// per company, refreshed by the sweep worker.
	LowStockAlertsGauge *prometheus.GaugeVec
	// CartSnapshotRepairsTotal counts persisted cart snapshots discarded or
	// cleaned during load.
	CartSnapshotRepairsTotal *prometheus.CounterVec
	// ProvisioningRequestsTotal counts calls to the external account
	// provisioning endpoint by outcome.
	ProvisioningRequestsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of order placement attempts by outcome.",
		}, []string{"result"})
		OrderStatusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Count of administrative order status transitions.",
		}, []string{"to", "result"})
		LowStockAlertsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_alerts",
			Help:      "Products currently at or below their alert threshold.",
		}, []string{"company"})
		CartSnapshotRepairsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_snapshot_repairs_total",
			Help:      "Persisted cart snapshots repaired or discarded at load time.",
		}, []string{"kind"})
		ProvisioningRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provisioning_requests_total",
			Help:      "Calls to the account provisioning endpoint by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, OrdersPlacedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersPlacedTotal = v
			}
		})
		mustRegisterCollector(reg, OrderStatusTransitionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrderStatusTransitionsTotal = v
			}
		})
		mustRegisterCollector(reg, LowStockAlertsGauge, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.GaugeVec); ok {
				LowStockAlertsGauge = v
			}
		})
		mustRegisterCollector(reg, CartSnapshotRepairsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartSnapshotRepairsTotal = v
			}
		})
		mustRegisterCollector(reg, ProvisioningRequestsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProvisioningRequestsTotal = v
			}
		})
	})
}

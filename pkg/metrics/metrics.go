package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus instruments for the ledger core.
type Collector struct {
	registry             *prometheus.Registry
	transactionsTotal    *prometheus.CounterVec
	compensationsTotal   prometheus.Counter
	compensationFailures prometheus.Counter
	eventsPublished      *prometheus.CounterVec
	eventPublishFailures prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		transactionsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Transaction attempts by type and terminal status",
		}, []string{"type", "status"}),
		compensationsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_transfer_compensations_total",
			Help: "Transfers whose target credit failed and whose source debit was compensated",
		}),
		compensationFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_compensation_failures_total",
			Help: "Compensations that also failed and were queued for manual reconciliation",
		}),
		eventsPublished: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_events_published_total",
			Help: "Domain events published by routing key",
		}, []string{"routing_key"}),
		eventPublishFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_event_publish_failures_total",
			Help: "Domain event publishes that failed (logged and swallowed)",
		}),
	}
}

// RecordTransaction counts one terminal transaction outcome.
func (c *Collector) RecordTransaction(txType, status string) {
	c.transactionsTotal.WithLabelValues(txType, status).Inc()
}

// RecordCompensation counts one applied transfer compensation.
func (c *Collector) RecordCompensation() {
	c.compensationsTotal.Inc()
}

// RecordCompensationFailure counts one compensation that needs manual
// reconciliation.
func (c *Collector) RecordCompensationFailure() {
	c.compensationFailures.Inc()
}

// RecordEventPublished counts one published domain event.
func (c *Collector) RecordEventPublished(routingKey string) {
	c.eventsPublished.WithLabelValues(routingKey).Inc()
}

// RecordEventPublishFailure counts one swallowed publish failure.
func (c *Collector) RecordEventPublishFailure() {
	c.eventPublishFailures.Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

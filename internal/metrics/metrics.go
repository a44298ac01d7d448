// Package metrics exposes Prometheus instrumentation for the fetch
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the tracker's Prometheus collectors.
type Metrics struct {
	FeedReads      prometheus.Counter
	BulkLookups    prometheus.Counter
	BillFetches    prometheus.Counter
	FetchErrors    *prometheus.CounterVec
	EventsRelayed  prometheus.Counter
	StoreSizeGauge prometheus.GaugeFunc
}

// New registers the collectors with the given registerer. Pass a fresh
// registry in tests to avoid duplicate registration.
func New(reg prometheus.Registerer, storeSize func() float64) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		FeedReads: factory.NewCounter(prometheus.CounterOpts{
			Name: "legtrack_feed_reads_total",
			Help: "Spreadsheet feed retrievals performed",
		}),
		BulkLookups: factory.NewCounter(prometheus.CounterOpts{
			Name: "legtrack_bulk_lookups_total",
			Help: "Batched legislative API lookups performed",
		}),
		BillFetches: factory.NewCounter(prometheus.CounterOpts{
			Name: "legtrack_bill_fetches_total",
			Help: "Individual bill detail fetches performed",
		}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legtrack_fetch_errors_total",
			Help: "Fetch failures by stage",
		}, []string{"stage"}),
		EventsRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "legtrack_events_relayed_total",
			Help: "Lifecycle events forwarded to the AMQP exchange",
		}),
	}
	if storeSize != nil {
		m.StoreSizeGauge = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "legtrack_identity_store_entities",
			Help: "Entities held by the identity store",
		}, storeSize)
	}
	return m
}

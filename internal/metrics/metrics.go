// Package metrics collects Prometheus counters for store and auth traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the store and auth provider report to.
type Recorder interface {
	RecordStoreWrite(op string, err error)
	RecordSnapshot(cards int)
	RecordAuth(op string, err error)
}

// Collector implements Recorder with Prometheus metrics.
type Collector struct {
	storeWrites   *prometheus.CounterVec
	snapshots     prometheus.Counter
	snapshotCards prometheus.Histogram
	authAttempts  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fcm_store_writes_total",
			Help: "Document store write requests by operation and result.",
		}, []string{"op", "result"}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fcm_snapshots_pushed_total",
			Help: "Live query snapshots delivered to subscribers.",
		}),
		snapshotCards: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fcm_snapshot_cards",
			Help:    "Number of cards per delivered snapshot.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fcm_auth_requests_total",
			Help: "Auth provider requests by operation and result.",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(
		c.storeWrites,
		c.snapshots,
		c.snapshotCards,
		c.authAttempts,
	)

	return c
}

// RecordStoreWrite records a store write.
func (c *Collector) RecordStoreWrite(op string, err error) {
	c.storeWrites.WithLabelValues(op, result(err)).Inc()
}

// RecordSnapshot records a delivered snapshot.
func (c *Collector) RecordSnapshot(cards int) {
	c.snapshots.Inc()
	c.snapshotCards.Observe(float64(cards))
}

// RecordAuth records an auth provider request.
func (c *Collector) RecordAuth(op string, err error) {
	c.authAttempts.WithLabelValues(op, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordStoreWrite(string, error) {}
func (Nop) RecordSnapshot(int)             {}
func (Nop) RecordAuth(string, error)       {}

// Handler serves /metrics for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

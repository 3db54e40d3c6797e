package app

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "auction"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Height of the last committed block.
	Height metrics.Gauge
	// Number of delivered transactions, labeled by instruction and result.
	DeliveredTxs metrics.Counter
	// Number of transactions rejected by CheckTx.
	RejectedTxs metrics.Counter
	// Number of escrow balance invariant violations detected.
	EscrowViolations metrics.Counter
	// Number of state writes committed per block.
	BlockWrites metrics.Histogram
	// Size of accepted bids.
	BidAmount metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		Height: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "height",
			Help:      "Height of the last committed block.",
		}, labels).With(labelsAndValues...),
		DeliveredTxs: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "delivered_txs",
			Help:      "Number of delivered transactions by instruction and result.",
		}, extend(labels, "instruction", "result")).With(labelsAndValues...),
		RejectedTxs: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "rejected_txs",
			Help:      "Number of transactions rejected by CheckTx.",
		}, extend(labels, "result")).With(labelsAndValues...),
		EscrowViolations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "escrow_violations",
			Help:      "Number of escrow balance invariant violations.",
		}, labels).With(labelsAndValues...),
		BlockWrites: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "block_writes",
			Help:      "Number of state writes committed per block.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 4, 8),
		}, labels).With(labelsAndValues...),
		BidAmount: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "bid_amount",
			Help:      "Amount of accepted bids.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 10, 12),
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Height:           discard.NewGauge(),
		DeliveredTxs:     discard.NewCounter(),
		RejectedTxs:      discard.NewCounter(),
		EscrowViolations: discard.NewCounter(),
		BlockWrites:      discard.NewHistogram(),
		BidAmount:        discard.NewHistogram(),
	}
}

func extend(labels []string, extra ...string) []string {
	out := make([]string, 0, len(labels)+len(extra))
	out = append(out, labels...)
	return append(out, extra...)
}

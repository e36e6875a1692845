package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomeEmpty   = "empty"
)

// Metrics tracks aggregation cycles across all configured feeds.
type Metrics struct {
	cycleDuration  prometheus.Histogram
	sourceOutcomes *prometheus.CounterVec
	seedFallbacks  prometheus.Counter
	staleServes    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transferfeed",
			Subsystem: "aggregation",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of a full aggregation cycle over every feed source.",
			Buckets:   prometheus.DefBuckets,
		}),
		sourceOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transferfeed",
			Subsystem: "aggregation",
			Name:      "source_outcomes_total",
			Help:      "Per-source fetch outcomes within aggregation cycles.",
		}, []string{"source", "outcome"}),
		seedFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transferfeed",
			Subsystem: "aggregation",
			Name:      "seed_fallbacks_total",
			Help:      "Cycles that served the bundled seed dataset because every feed came back empty.",
		}),
		staleServes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transferfeed",
			Subsystem: "cache",
			Name:      "stale_serves_total",
			Help:      "Requests answered from an expired snapshot after a refresh failure.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cycleDuration, m.sourceOutcomes, m.seedFallbacks, m.staleServes)
	}
	return m
}

func (m *Metrics) observeCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.cycleDuration.Observe(d.Seconds())
}

func (m *Metrics) recordOutcome(source, outcome string) {
	if m == nil {
		return
	}
	m.sourceOutcomes.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) recordSeedFallback() {
	if m == nil {
		return
	}
	m.seedFallbacks.Inc()
}

func (m *Metrics) recordStaleServe() {
	if m == nil {
		return
	}
	m.staleServes.Inc()
}

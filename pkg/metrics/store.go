package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records row store adapter activity.
type StoreMetrics struct {
	reads     *prometheus.CounterVec
	writes    *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	recompute prometheus.Histogram
}

// NewStoreMetrics registers the row store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	reads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rowstore_reads_total",
		Help: "Row store fetches by outcome.",
	}, []string{"outcome"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rowstore_writes_total",
		Help: "Row store appends and deletes by operation and outcome.",
	}, []string{"op", "outcome"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rowstore_snapshot_cache_total",
		Help: "Snapshot cache lookups by result.",
	}, []string{"result"})
	recompute := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "derivation_recompute_seconds",
		Help:    "Duration of full derived-view recomputations.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(reads, writes, cacheHits, recompute)
	return &StoreMetrics{
		reads:     reads,
		writes:    writes,
		cacheHits: cacheHits,
		recompute: recompute,
	}
}

// IncRead counts one fetch with the given outcome ("ok" or "error").
func (m *StoreMetrics) IncRead(outcome string) {
	if m == nil || m.reads == nil {
		return
	}
	m.reads.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncWrite counts one append/delete with the given outcome.
func (m *StoreMetrics) IncWrite(op, outcome string) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// IncCache counts a snapshot cache hit or miss.
func (m *StoreMetrics) IncCache(result string) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveRecompute records the duration of one derived-view recomputation.
func (m *StoreMetrics) ObserveRecompute(d time.Duration) {
	if m == nil || m.recompute == nil {
		return
	}
	m.recompute.Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

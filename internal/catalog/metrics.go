package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelResult = "result"

	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
	resultOK    = "ok"
)

type Metrics struct {
	CacheReads  *prometheus.CounterVec
	CacheWrites *prometheus.CounterVec
	Generations prometheus.Counter
	FilterTime  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_reads_total",
				Help: "Catalog cache lookups by result",
			},
			[]string{labelResult},
		),
		CacheWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_writes_total",
				Help: "Catalog cache writes by result",
			},
			[]string{labelResult},
		),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_generations_total",
			Help: "Catalogs generated after a cache miss",
		}),
		FilterTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_filter_duration_seconds",
			Help:    "Time spent recomputing a filtered view",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}

	reg.MustRegister(m.CacheReads, m.CacheWrites, m.Generations, m.FilterTime)
	return m
}

func (m *Metrics) cacheRead(result string) {
	if m != nil {
		m.CacheReads.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) cacheWrite(result string) {
	if m != nil {
		m.CacheWrites.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) generated() {
	if m != nil {
		m.Generations.Inc()
	}
}

func (m *Metrics) observeFilter(start time.Time) {
	if m != nil {
		m.FilterTime.Observe(time.Since(start).Seconds())
	}
}

package upgrade

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultMigrated = "migrated"
	resultSkipped  = "skipped"
	resultFailed   = "failed"
)

// Metrics are the runner's Prometheus collectors.
type Metrics struct {
	Records  *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewMetrics registers the runner collectors with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worldupgrade_records_total",
			Help: "Chunk records processed, by result",
		}, []string{"result"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldupgrade_record_duration_seconds",
			Help:    "Time to load, migrate and save one chunk record",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
	}
}

func (m *Metrics) observe(result string, seconds float64) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(result).Inc()
	m.Duration.Observe(seconds)
}

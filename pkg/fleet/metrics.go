package fleet

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks fleet scan outcomes.
//
// Metrics:
//   - surveyor_assessments_total: completed assessments by conformance level
//   - surveyor_assessment_failures_total: targets that could not be assessed
//   - surveyor_assessment_duration_seconds: per-target assessment duration
//   - surveyor_composite_score: last observed composite score per target
type Metrics struct {
	assessmentsTotal   *prometheus.CounterVec
	failuresTotal      prometheus.Counter
	assessmentDuration prometheus.Histogram
	compositeScore     *prometheus.GaugeVec
}

// NewMetrics creates and registers fleet metrics with the provided registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		assessmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surveyor",
				Name:      "assessments_total",
				Help:      "Total number of completed assessments by conformance level",
			},
			[]string{"level"},
		),

		failuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "surveyor",
				Name:      "assessment_failures_total",
				Help:      "Total number of targets that could not be assessed",
			},
		),

		assessmentDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "surveyor",
				Name:      "assessment_duration_seconds",
				Help:      "Duration of single-target assessment including fact extraction",
				// Extraction dominates; scoring itself is microseconds.
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to 2s
			},
		),

		compositeScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "surveyor",
				Name:      "composite_score",
				Help:      "Most recent composite score per target",
			},
			[]string{"target"},
		),
	}

	registry.MustRegister(
		m.assessmentsTotal,
		m.failuresTotal,
		m.assessmentDuration,
		m.compositeScore,
	)
	return m
}

// Observe records one scan result.
func (m *Metrics) Observe(result Result) {
	m.assessmentDuration.Observe(result.Duration.Seconds())

	if result.Err != nil {
		m.failuresTotal.Inc()
		return
	}

	m.assessmentsTotal.WithLabelValues(result.Report.Level.String()).Inc()
	m.compositeScore.WithLabelValues(result.Report.Target).Set(float64(result.Report.CompositeScore))
}

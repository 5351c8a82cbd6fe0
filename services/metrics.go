package services

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metric names.
const (
	MetricRulesBuildTotal        = "grader_rules_build_total"
	MetricRulesBuildDuration     = "grader_rules_build_duration_seconds"
	MetricRulesCategories        = "grader_rules_categories"
	MetricRulesCorpusSize        = "grader_rules_corpus_size"
	MetricRulesLastBuildTime     = "grader_rules_last_build_timestamp"
	MetricGradesTotal            = "grader_grades_total"
	MetricTimestampParseFailures = "grader_timestamp_parse_failures_total"
)

// Metrics holds Prometheus collectors for rule builds and grading.
// All operations are thread-safe.
type Metrics struct {
	buildTotal      *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	categories      *prometheus.GaugeVec
	corpusSize      prometheus.Gauge
	lastBuild       prometheus.Gauge
	gradesTotal     *prometheus.CounterVec
	timestampErrors prometheus.Counter
}

// NewMetrics creates unregistered collectors; call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		buildTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRulesBuildTotal,
			Help: "Total number of rules builds by status",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRulesBuildDuration,
			Help:    "Histogram of rules build duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		categories: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricRulesCategories,
			Help: "Number of categories in the last rules build by confidence",
		}, []string{"confidence"}),
		corpusSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRulesCorpusSize,
			Help: "Number of listings in the last rules build",
		}),
		lastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRulesLastBuildTime,
			Help: "Unix timestamp of the last successful rules build",
		}),
		gradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricGradesTotal,
			Help: "Total number of graded listings by letter",
		}, []string{"letter"}),
		timestampErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricTimestampParseFailures,
			Help: "Listings whose update timestamp could not be parsed",
		}),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns every collector, mainly for tests.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.buildTotal,
		m.buildDuration,
		m.categories,
		m.corpusSize,
		m.lastBuild,
		m.gradesTotal,
		m.timestampErrors,
	}
}

// ObserveBuild records a finished rules build.
func (m *Metrics) ObserveBuild(status string, seconds float64) {
	m.buildTotal.WithLabelValues(status).Inc()
	m.buildDuration.Observe(seconds)
}

// SetBuildShape records the size of the last successful build.
func (m *Metrics) SetBuildShape(corpus int, byConfidence map[string]int, unixTime float64) {
	m.corpusSize.Set(float64(corpus))
	for _, c := range []string{"high", "medium", "low", "fallback"} {
		m.categories.WithLabelValues(c).Set(float64(byConfidence[c]))
	}
	m.lastBuild.Set(unixTime)
}

// IncGrade counts one graded listing.
func (m *Metrics) IncGrade(letter string) {
	m.gradesTotal.WithLabelValues(letter).Inc()
}

// GradeCounts returns the number of graded listings per letter so far.
func (m *Metrics) GradeCounts() map[string]int {
	counts := make(map[string]int)
	for _, letter := range []string{"A", "B", "C", "D", "F"} {
		var out dto.Metric
		if err := m.gradesTotal.WithLabelValues(letter).Write(&out); err != nil {
			continue
		}
		if v := int(out.GetCounter().GetValue()); v > 0 {
			counts[letter] = v
		}
	}
	return counts
}

// IncTimestampErrors counts n unparseable timestamps.
func (m *Metrics) IncTimestampErrors(n int) {
	m.timestampErrors.Add(float64(n))
}

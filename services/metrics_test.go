package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	m.ObserveBuild("success", 1.5)
	m.SetBuildShape(10, map[string]int{"high": 2, "fallback": 1}, 1700000000)
	m.IncGrade("A")
	m.IncTimestampErrors(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	expected := map[string]bool{
		MetricRulesBuildTotal:        false,
		MetricRulesBuildDuration:     false,
		MetricRulesCategories:        false,
		MetricRulesCorpusSize:        false,
		MetricRulesLastBuildTime:     false,
		MetricGradesTotal:            false,
		MetricTimestampParseFailures: false,
	}
	for _, f := range families {
		if _, ok := expected[f.GetName()]; ok {
			expected[f.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %s not gathered", name)
		}
	}

	if got := gaugeValue(t, m.categories.WithLabelValues("high")); got != 2 {
		t.Errorf("high categories: got %.0f, want 2", got)
	}
	if got := counterValue(t, m.timestampErrors); got != 3 {
		t.Errorf("timestamp errors: got %.0f, want 3", got)
	}
}

func TestGradeCounts(t *testing.T) {
	m := NewMetrics()
	for _, l := range []string{"A", "A", "C", "F"} {
		m.IncGrade(l)
	}
	got := m.GradeCounts()
	want := map[string]int{"A": 2, "C": 1, "F": 1}
	if len(got) != len(want) {
		t.Fatalf("GradeCounts: got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("GradeCounts[%s]: got %d, want %d", k, got[k], v)
		}
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := NewMetrics().Register(reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := NewMetrics().Register(reg); err == nil {
		t.Error("second Register should fail")
	}
}

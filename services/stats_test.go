package services

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	d := Summarize([]float64{4, 1, 3, 2})

	if d.Count != 4 || d.Min != 1 || d.Max != 4 {
		t.Errorf("count/min/max: got %d/%.2f/%.2f", d.Count, d.Min, d.Max)
	}
	if d.Mean != 2.5 || d.Median != 2.5 {
		t.Errorf("mean/median: got %.2f/%.2f, want 2.5/2.5", d.Mean, d.Median)
	}
	if d.P25 != 1.75 || d.P75 != 3.25 {
		t.Errorf("quartiles: got %.2f/%.2f, want 1.75/3.25", d.P25, d.P75)
	}
	if want := math.Sqrt(1.25); math.Abs(d.StdDev-want) > 1e-12 {
		t.Errorf("StdDev: got %.6f, want %.6f", d.StdDev, want)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	d := Summarize([]float64{7})
	if d.StdDev != 0 || d.Median != 7 || d.P25 != 7 || d.P75 != 7 {
		t.Errorf("single value: got %+v", d)
	}
	if d.RSD() != 0 {
		t.Errorf("RSD: got %.2f, want 0", d.RSD())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if d := Summarize(nil); d.Count != 0 || d.Mean != 0 {
		t.Errorf("empty: got %+v", d)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{25, 20},
		{50, 30},
		{90, 46},
		{100, 50},
	}

	for _, tt := range tests {
		if got := Percentile(sorted, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%.0f) = %.2f; want %.2f", tt.p, got, tt.want)
		}
	}
}

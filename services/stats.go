package services

import (
	"math"
	"sort"

	"asset-grader/models"
)

// Summarize computes population statistics and interpolated quartiles of
// values. An empty input yields the zero Distribution.
func Summarize(values []float64) models.Distribution {
	n := len(values)
	if n == 0 {
		return models.Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range sorted {
		sq += (v - mean) * (v - mean)
	}

	return models.Distribution{
		Count:  n,
		Median: Percentile(sorted, 50),
		Mean:   mean,
		StdDev: math.Sqrt(sq / float64(n)),
		P25:    Percentile(sorted, 25),
		P75:    Percentile(sorted, 75),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// Percentile returns the p-th percentile of an ascending slice using linear
// interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[n-1]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Package stats reduces raw simulation samples to summaries, histograms and
// tail-risk metrics. Every function is pure and stateless: inputs are never
// mutated, sorting happens on copies.
package stats

import (
	"errors"
	"math"
	"slices"
)

// ErrNoSamples is returned when a reduction is requested over zero values.
// There is no meaningful summary of an empty sample.
var ErrNoSamples = errors.New("no samples to analyze")

// Summary holds the descriptive statistics of one output across a run.
type Summary struct {
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"standardDeviation"`
	Percentile10      float64 `json:"percentile10"`
	Percentile25      float64 `json:"percentile25"`
	Percentile75      float64 `json:"percentile75"`
	Percentile90      float64 `json:"percentile90"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	Count             int     `json:"count"`
}

// CalculateSummary computes mean, median, population standard deviation and
// interpolated percentiles over values.
func CalculateSummary(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoSamples
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)

	n := float64(len(sorted))
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / n

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	// Population variance: the run is the whole population of interest,
	// not a sample from a larger one.
	variance /= n

	return Summary{
		Mean:              mean,
		Median:            CalculatePercentile(sorted, 50),
		StandardDeviation: math.Sqrt(variance),
		Percentile10:      CalculatePercentile(sorted, 10),
		Percentile25:      CalculatePercentile(sorted, 25),
		Percentile75:      CalculatePercentile(sorted, 75),
		Percentile90:      CalculatePercentile(sorted, 90),
		Min:               sorted[0],
		Max:               sorted[len(sorted)-1],
		Count:             len(sorted),
	}, nil
}

// CalculatePercentile returns the p-th percentile of an already sorted slice
// using linear interpolation between order statistics. P0 is the first
// element, P100 the last. An empty slice yields 0; callers that need an
// error for the no-sample case go through CalculateSummary.
func CalculatePercentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower < 0 {
		lower = 0
	}
	if upper >= len(sorted) {
		upper = len(sorted) - 1
	}
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

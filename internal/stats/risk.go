package stats

import "slices"

// RiskMetrics captures the downside tail of an outcome distribution.
// Value at Risk is the raw order statistic at the tail percentile, not an
// interpolated value; Expected Shortfall is the mean of the tail at or below
// that order statistic.
type RiskMetrics struct {
	ProbabilityOfLoss   float64 `json:"probabilityOfLoss"`
	ValueAtRisk95       float64 `json:"valueAtRisk95"`
	ValueAtRisk99       float64 `json:"valueAtRisk99"`
	ExpectedShortfall95 float64 `json:"expectedShortfall95"`
	ExpectedShortfall99 float64 `json:"expectedShortfall99"`
}

// CalculateRiskMetrics derives tail-risk metrics from values. The
// probability of loss is the percentage of samples strictly below threshold.
func CalculateRiskMetrics(values []float64, threshold float64) (RiskMetrics, error) {
	if len(values) == 0 {
		return RiskMetrics{}, ErrNoSamples
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)

	losses := 0
	for _, v := range sorted {
		if v < threshold {
			losses++
		}
	}

	var95 := int(float64(len(sorted)) * 0.05)
	var99 := int(float64(len(sorted)) * 0.01)

	return RiskMetrics{
		ProbabilityOfLoss:   float64(losses) / float64(len(sorted)) * 100,
		ValueAtRisk95:       sorted[var95],
		ValueAtRisk99:       sorted[var99],
		ExpectedShortfall95: tailMean(sorted, var95),
		ExpectedShortfall99: tailMean(sorted, var99),
	}, nil
}

// tailMean averages sorted[0..varIdx] inclusive. The slice is never empty
// here since varIdx >= 0, so the VaR value itself is the floor of the result.
func tailMean(sorted []float64, varIdx int) float64 {
	tail := sorted[:varIdx+1]
	if len(tail) == 0 {
		return sorted[varIdx]
	}
	sum := 0.0
	for _, v := range tail {
		sum += v
	}
	return sum / float64(len(tail))
}

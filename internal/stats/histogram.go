package stats

import (
	"fmt"
	"slices"
)

// DefaultBins is the bin count used when a caller does not ask for one.
const DefaultBins = 20

// Bin is one equal-width histogram bucket. The last bin of a histogram is
// closed on both ends so the maximum value is counted exactly once.
type Bin struct {
	BinStart   float64 `json:"binStart"`
	BinEnd     float64 `json:"binEnd"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CalculateHistogram buckets values into bins equal-width buckets spanning
// [min, max]. Counts sum to len(values) and percentages to 100 within
// floating rounding.
func CalculateHistogram(values []float64, bins int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, ErrNoSamples
	}
	if bins < 1 {
		return nil, fmt.Errorf("bin count must be at least 1, got %d", bins)
	}

	min := slices.Min(values)
	max := slices.Max(values)

	width := (max - min) / float64(bins)
	if width == 0 {
		// Degenerate distribution: every value identical.
		return []Bin{{BinStart: min, BinEnd: max, Count: len(values), Percentage: 100}}, nil
	}

	result := make([]Bin, bins)
	for i := range result {
		result[i].BinStart = min + float64(i)*width
		result[i].BinEnd = min + float64(i+1)*width
	}
	result[bins-1].BinEnd = max

	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		result[idx].Count++
	}

	total := float64(len(values))
	for i := range result {
		result[i].Percentage = float64(result[i].Count) / total * 100
	}
	return result, nil
}

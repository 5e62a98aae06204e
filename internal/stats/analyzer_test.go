package stats

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateSummary_KnownValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	s, err := CalculateSummary(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Mean != 5.5 {
		t.Errorf("Expected mean 5.5, got %f", s.Mean)
	}
	if s.Median != 5.5 {
		t.Errorf("Expected median 5.5, got %f", s.Median)
	}
	if s.Min != 1 || s.Max != 10 {
		t.Errorf("Expected min 1 and max 10, got %f and %f", s.Min, s.Max)
	}
	if s.Count != 10 {
		t.Errorf("Expected count 10, got %d", s.Count)
	}
	// Population standard deviation of 1..10.
	want := math.Sqrt(8.25)
	if math.Abs(s.StandardDeviation-want) > 1e-12 {
		t.Errorf("Expected standard deviation %f, got %f", want, s.StandardDeviation)
	}
	if math.Abs(s.Percentile10-1.9) > 1e-12 {
		t.Errorf("Expected P10 1.9, got %f", s.Percentile10)
	}
	if math.Abs(s.Percentile25-3.25) > 1e-12 {
		t.Errorf("Expected P25 3.25, got %f", s.Percentile25)
	}
	if math.Abs(s.Percentile75-7.75) > 1e-12 {
		t.Errorf("Expected P75 7.75, got %f", s.Percentile75)
	}
	if math.Abs(s.Percentile90-9.1) > 1e-12 {
		t.Errorf("Expected P90 9.1, got %f", s.Percentile90)
	}
}

func TestCalculateSummary_OrderInvariance(t *testing.T) {
	ordered := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	shuffled := []float64{5, 1, 8, 3, 7, 2, 6, 4}

	a, err := CalculateSummary(ordered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := CalculateSummary(shuffled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a != b {
		t.Errorf("Expected identical summaries, got %+v and %+v", a, b)
	}
}

func TestCalculateSummary_Empty(t *testing.T) {
	_, err := CalculateSummary(nil)
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("Expected ErrNoSamples, got %v", err)
	}
}

func TestCalculateSummary_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	if _, err := CalculateSummary(values); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Input slice was mutated: %v", values)
	}
}

func TestCalculatePercentile_Bounds(t *testing.T) {
	sorted := []float64{2, 4, 6, 8}

	if got := CalculatePercentile(sorted, 0); got != 2 {
		t.Errorf("Expected P0 to be the first element, got %f", got)
	}
	if got := CalculatePercentile(sorted, 100); got != 8 {
		t.Errorf("Expected P100 to be the last element, got %f", got)
	}
}

func TestCalculatePercentile_Interpolates(t *testing.T) {
	sorted := []float64{10, 20}
	if got := CalculatePercentile(sorted, 50); got != 15 {
		t.Errorf("Expected interpolated P50 15, got %f", got)
	}
}

func TestCalculatePercentile_Empty(t *testing.T) {
	if got := CalculatePercentile(nil, 50); got != 0 {
		t.Errorf("Expected 0 for empty input, got %f", got)
	}
}

package domain

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// minOutlierSample is the smallest series for which positional quartiles
// are meaningful.
const minOutlierSample = 4

// iqrFence is the Tukey fence multiplier applied to the interquartile range.
const iqrFence = 1.5

// StatsSummary is the descriptive summary of a numeric series.
type StatsSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}

// OutlierPoint flags one input position of a series.
type OutlierPoint struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	IsOutlier bool    `json:"is_outlier"`
}

// Trend is the direction of a series from its first to its last value.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// CalculateStats summarizes values. It returns false for an empty series.
// Std is the population standard deviation. values is not modified.
// Min <= Median <= Max and Min <= Mean <= Max hold for every finite series.
func CalculateStats(values []float64) (StatsSummary, bool) {
	if len(values) == 0 {
		return StatsSummary{}, false
	}

	// Errors are only returned for empty input, which is handled above.
	minV, _ := stats.Min(values)
	maxV, _ := stats.Max(values)

	scale, scaled := scaleDown(values, minV, maxV)
	mean, _ := stats.Mean(scaled)
	median, _ := stats.Median(scaled)
	std, _ := stats.StandardDeviationPopulation(scaled)

	return StatsSummary{
		Min:    minV,
		Max:    maxV,
		Mean:   clamp(mean*scale, minV, maxV), // sum/n can drift past the bounds by an ulp
		Median: clamp(median*scale, minV, maxV),
		Std:    std * scale,
		Count:  len(values),
	}, true
}

// largeMagnitude is the point past which sums and squares of two values can
// overflow float64.
const largeMagnitude = 1e150

// scaleDown divides values by their largest magnitude when it exceeds
// largeMagnitude, so every intermediate stays finite. It returns the factor
// to multiply results by and the (possibly shared) series to summarize.
func scaleDown(values []float64, minV, maxV float64) (float64, []float64) {
	m := max(math.Abs(minV), math.Abs(maxV))
	if m <= largeMagnitude || math.IsInf(m, 0) {
		return 1, values
	}
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / m
	}
	return m, scaled
}

// DetectOutliers flags every value outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
// The result is aligned with values. Series shorter than four values yield an
// empty result.
func DetectOutliers(values []float64) []OutlierPoint {
	lower, upper, ok := OutlierBounds(values)
	if !ok {
		return []OutlierPoint{}
	}

	out := make([]OutlierPoint, len(values))
	for i, v := range values {
		out[i] = OutlierPoint{
			Index:     i,
			Value:     v,
			IsOutlier: v < lower || v > upper,
		}
	}
	return out
}

// OutlierBounds returns the inner fences computed from positional quartiles:
// Q1 = sorted[floor(n/4)], Q3 = sorted[floor(3n/4)].
func OutlierBounds(values []float64) (lower, upper float64, ok bool) {
	n := len(values)
	if n < minOutlierSample {
		return 0, 0, false
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	q1 := sorted[n/4]
	q3 := sorted[(3*n)/4]
	iqr := q3 - q1

	return q1 - iqrFence*iqr, q3 + iqrFence*iqr, true
}

// Outliers returns only the flagged points of DetectOutliers.
func Outliers(values []float64) []OutlierPoint {
	var flagged []OutlierPoint
	for _, p := range DetectOutliers(values) {
		if p.IsOutlier {
			flagged = append(flagged, p)
		}
	}
	return flagged
}

// TrendOf compares the last value with the first. Series with fewer than two
// values, or equal endpoints, are stable.
func TrendOf(values []float64) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	first, last := values[0], values[len(values)-1]
	switch {
	case last > first:
		return TrendUp
	case last < first:
		return TrendDown
	default:
		return TrendStable
	}
}

// Slope is the least-squares change per step across the series.
func Slope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, values, nil, false)
	return beta
}

// SeriesSummary is the chart-ready analysis of one metric's history.
type SeriesSummary struct {
	Metric   MetricType     `json:"metric"`
	Stats    StatsSummary   `json:"stats"`
	Outliers []OutlierPoint `json:"outliers,omitempty"`
	Trend    Trend          `json:"trend"`
	Slope    float64        `json:"slope"`
	Latest   float64        `json:"latest"`
	Range    float64        `json:"range"`
}

// SummarizeSeries runs the statistics engine over one metric's values.
// It returns false when values is empty.
func SummarizeSeries(metric MetricType, values []float64) (SeriesSummary, bool) {
	summary, ok := CalculateStats(values)
	if !ok {
		return SeriesSummary{}, false
	}
	return SeriesSummary{
		Metric:   metric,
		Stats:    summary,
		Outliers: Outliers(values),
		Trend:    TrendOf(values),
		Slope:    Slope(values),
		Latest:   values[len(values)-1],
		Range:    summary.Max - summary.Min,
	}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStats(t *testing.T) {
	t.Run("four values", func(t *testing.T) {
		summary, ok := CalculateStats([]float64{10, 20, 30, 40})
		require.True(t, ok)

		assert.Equal(t, 10.0, summary.Min)
		assert.Equal(t, 40.0, summary.Max)
		assert.Equal(t, 25.0, summary.Mean)
		assert.Equal(t, 25.0, summary.Median)
		assert.InDelta(t, 11.18, summary.Std, 0.01)
		assert.Equal(t, 4, summary.Count)
	})

	t.Run("odd count median is the middle element", func(t *testing.T) {
		summary, ok := CalculateStats([]float64{9, 1, 5})
		require.True(t, ok)
		assert.Equal(t, 5.0, summary.Median)
		assert.Equal(t, 1.0, summary.Min)
		assert.Equal(t, 9.0, summary.Max)
	})

	t.Run("single value", func(t *testing.T) {
		summary, ok := CalculateStats([]float64{7.5})
		require.True(t, ok)
		assert.Equal(t, StatsSummary{Min: 7.5, Max: 7.5, Mean: 7.5, Median: 7.5, Std: 0, Count: 1}, summary)
	})

	t.Run("empty", func(t *testing.T) {
		summary, ok := CalculateStats(nil)
		assert.False(t, ok)
		assert.Equal(t, StatsSummary{}, summary)

		_, ok = CalculateStats([]float64{})
		assert.False(t, ok)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		values := []float64{3, 1, 2}
		_, ok := CalculateStats(values)
		require.True(t, ok)
		assert.Equal(t, []float64{3, 1, 2}, values)
	})
}

func TestCalculateStats_Bounds(t *testing.T) {
	series := [][]float64{
		{0.1, 0.1, 0.1},
		{-5, 0, 5},
		{1e9, 1e9 + 1, 1e9 + 2, 1e9 + 3},
		{12.3, 45.6, 7.8, 90.1, 23.4, 56.7},
		{-0.3, -0.3, -0.3, -0.3, -0.3},
		{1e308, 1e308},
		{1e308, 1.5e308},
		{-1.7e308, 1.7e308, 1.7e308},
	}
	for _, s := range series {
		summary, ok := CalculateStats(s)
		require.True(t, ok)
		assert.LessOrEqual(t, summary.Min, summary.Mean, "series %v", s)
		assert.LessOrEqual(t, summary.Mean, summary.Max, "series %v", s)
		assert.LessOrEqual(t, summary.Min, summary.Median, "series %v", s)
		assert.LessOrEqual(t, summary.Median, summary.Max, "series %v", s)
		assert.False(t, math.IsInf(summary.Std, 0) || math.IsNaN(summary.Std), "series %v", s)
	}
}

func TestCalculateStats_NearFloatLimit(t *testing.T) {
	summary, ok := CalculateStats([]float64{1e308, 1e308})
	require.True(t, ok)
	assert.Equal(t, 1e308, summary.Mean)
	assert.Equal(t, 1e308, summary.Median)
	assert.Equal(t, 0.0, summary.Std)

	summary, ok = CalculateStats([]float64{1e308, 1.5e308})
	require.True(t, ok)
	assert.InEpsilon(t, 1.25e308, summary.Median, 1e-12)
	assert.InEpsilon(t, 1.25e308, summary.Mean, 1e-12)
	assert.InEpsilon(t, 0.25e308, summary.Std, 1e-12)

	_, err := json.Marshal(summary)
	assert.NoError(t, err)
}

func TestCalculateStats_Deterministic(t *testing.T) {
	values := []float64{4.2, 8.8, 1.1, 9.9, 3.3}
	first, _ := CalculateStats(values)
	second, _ := CalculateStats(values)
	assert.Equal(t, first, second)
}

func TestDetectOutliers(t *testing.T) {
	t.Run("flags the extreme value", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
		report := DetectOutliers(values)

		require.Len(t, report, len(values))
		for i, p := range report {
			assert.Equal(t, i, p.Index)
			assert.Equal(t, values[i], p.Value)
			assert.Equal(t, values[i] == 100, p.IsOutlier, "index %d", i)
		}
	})

	t.Run("preserves input order", func(t *testing.T) {
		values := []float64{50, -40, 10, 12, 11, 13}
		report := DetectOutliers(values)

		require.Len(t, report, len(values))
		assert.Equal(t, 50.0, report[0].Value)
		assert.Equal(t, -40.0, report[1].Value)
	})

	t.Run("values on the fence are not outliers", func(t *testing.T) {
		// sorted: 0 10 20 30 -> Q1=10 (idx 1), Q3=30 (idx 3), IQR=20, fences [-20, 60]
		lower, upper, ok := OutlierBounds([]float64{30, 0, 20, 10})
		require.True(t, ok)
		assert.Equal(t, -20.0, lower)
		assert.Equal(t, 60.0, upper)

		report := DetectOutliers([]float64{10, 20, 30, -20, 60})
		for _, p := range report {
			assert.False(t, p.IsOutlier, "value %v", p.Value)
		}
	})

	t.Run("fewer than four values", func(t *testing.T) {
		for _, values := range [][]float64{nil, {}, {1}, {1, 2}, {1, 2, 300}} {
			report := DetectOutliers(values)
			assert.NotNil(t, report)
			assert.Empty(t, report)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		values := []float64{9, 1, 8, 2, 7}
		DetectOutliers(values)
		assert.Equal(t, []float64{9, 1, 8, 2, 7}, values)
	})

	t.Run("deterministic", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
		assert.Equal(t, DetectOutliers(values), DetectOutliers(values))
	})
}

func TestOutliers_OnlyFlagged(t *testing.T) {
	flagged := Outliers([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100})
	require.Len(t, flagged, 1)
	assert.Equal(t, OutlierPoint{Index: 9, Value: 100, IsOutlier: true}, flagged[0])

	assert.Empty(t, Outliers([]float64{1, 2}))
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected Trend
	}{
		{"rising", []float64{10, 5, 12}, TrendUp},
		{"falling", []float64{12, 20, 10}, TrendDown},
		{"flat endpoints", []float64{10, 30, 10}, TrendStable},
		{"single value", []float64{10}, TrendStable},
		{"empty", nil, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrendOf(tt.values))
		})
	}
}

func TestSlope(t *testing.T) {
	assert.InDelta(t, 2.0, Slope([]float64{1, 3, 5, 7}), 1e-9)
	assert.InDelta(t, -0.5, Slope([]float64{10, 9.5, 9, 8.5}), 1e-9)
	assert.Equal(t, 0.0, Slope([]float64{42}))
	assert.Equal(t, 0.0, Slope(nil))
}

func TestSummarizeSeries(t *testing.T) {
	s, ok := SummarizeSeries(MetricTemperature, []float64{20, 21, 22, 23, 24, 25, 26, 27, 28, 60})
	require.True(t, ok)

	assert.Equal(t, MetricTemperature, s.Metric)
	assert.Equal(t, 10, s.Stats.Count)
	assert.Equal(t, TrendUp, s.Trend)
	assert.Equal(t, 60.0, s.Latest)
	assert.Equal(t, 40.0, s.Range)
	require.Len(t, s.Outliers, 1)
	assert.Equal(t, 9, s.Outliers[0].Index)
	assert.Greater(t, s.Slope, 0.0)

	_, ok = SummarizeSeries(MetricTemperature, nil)
	assert.False(t, ok)
}

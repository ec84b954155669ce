package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	none := ThresholdConfig{}

	tests := []struct {
		name       string
		metric     MetricType
		value      float64
		thresholds ThresholdConfig
		label      string
		intensity  Intensity
	}{
		{"temperature very hot", MetricTemperature, 36, none, "Muy Caliente", IntensityHigh},
		{"temperature at hot threshold", MetricTemperature, 35, none, "Muy Caliente", IntensityHigh},
		{"temperature hot", MetricTemperature, 30, none, "Caliente", IntensityMedium},
		{"temperature mild", MetricTemperature, 20, none, "Templado", IntensityLow},
		{"temperature cold", MetricTemperature, 10, none, "Frío", IntensityMedium},
		{"temperature at cold threshold", MetricTemperature, 5, none, "Muy Frío", IntensityHigh},
		{"temperature very cold", MetricTemperature, -12, none, "Muy Frío", IntensityHigh},
		{"temperature custom hot", MetricTemperature, 36, ThresholdConfig{VeryHot: f(40)}, "Caliente", IntensityMedium},
		{"temperature custom cold", MetricTemperature, 12, ThresholdConfig{VeryCold: f(12)}, "Muy Frío", IntensityHigh},

		{"precipitation very wet", MetricPrecipitation, 10, none, "Muy Húmedo", IntensityHigh},
		{"precipitation wet", MetricPrecipitation, 5, none, "Húmedo", IntensityMedium},
		{"precipitation light", MetricPrecipitation, 0.2, none, "Ligera Lluvia", IntensityLow},
		{"precipitation dry", MetricPrecipitation, 0, none, "Seco", IntensityLow},
		{"precipitation custom", MetricPrecipitation, 10, ThresholdConfig{VeryWet: f(30)}, "Ligera Lluvia", IntensityLow},

		{"wind very windy", MetricWindSpeed, 25, none, "Muy Ventoso", IntensityHigh},
		{"wind windy", MetricWindSpeed, 12.5, none, "Ventoso", IntensityMedium},
		{"wind breeze", MetricWindSpeed, 6, none, "Brisa", IntensityLow},
		{"wind calm", MetricWindSpeed, 5, none, "Calma", IntensityLow},

		{"humidity very humid", MetricHumidity, 80, none, "Muy Húmedo", IntensityHigh},
		{"humidity humid", MetricHumidity, 60, none, "Húmedo", IntensityMedium},
		{"humidity comfortable", MetricHumidity, 40, none, "Cómodo", IntensityLow},
		{"humidity dry", MetricHumidity, 39.9, none, "Seco", IntensityMedium},

		{"heat index very uncomfortable", MetricHeatIndex, 40, none, "Muy Incómodo", IntensityHigh},
		{"heat index uncomfortable", MetricHeatIndex, 35, none, "Incómodo", IntensityMedium},
		{"heat index comfortable", MetricHeatIndex, 34.9, none, "Cómodo", IntensityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.metric, tt.value, tt.thresholds)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.intensity, got.Intensity)
			assert.NotEmpty(t, got.Color)
		})
	}
}

func TestClassify_UnknownMetric(t *testing.T) {
	got := Classify(MetricType("unknown_type"), 5, ThresholdConfig{})
	assert.Equal(t, NormalLabel, got)
	assert.Equal(t, "Normal", got.Label)
	assert.Equal(t, IntensityLow, got.Intensity)
}

func TestClassify_ExplicitZeroThresholdIsHonoured(t *testing.T) {
	got := Classify(MetricWindSpeed, 0, ThresholdConfig{VeryWindy: f(0)})
	assert.Equal(t, "Muy Ventoso", got.Label)
}

func TestClassify_Deterministic(t *testing.T) {
	cfg := ThresholdConfig{VeryHot: f(40)}
	for _, m := range append(MetricTypes(), "unknown_type") {
		assert.Equal(t, Classify(m, 36, cfg), Classify(m, 36, cfg))
	}
}

func TestThresholdConfig_Effective(t *testing.T) {
	eff := ThresholdConfig{VeryHot: f(38)}.Effective()

	assert.Equal(t, 38.0, *eff.VeryHot)
	assert.Equal(t, DefaultVeryColdThreshold, *eff.VeryCold)
	assert.Equal(t, DefaultVeryWindyThreshold, *eff.VeryWindy)
	assert.Equal(t, DefaultVeryWetThreshold, *eff.VeryWet)
	assert.Equal(t, DefaultVeryUncomfortableThreshold, *eff.VeryUncomfortable)
}

func TestParseMetricType(t *testing.T) {
	m, ok := ParseMetricType(" Wind_Speed ")
	assert.True(t, ok)
	assert.Equal(t, MetricWindSpeed, m)

	_, ok = ParseMetricType("snow")
	assert.False(t, ok)
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		probability float64
		level       Intensity
		text        string
	}{
		{0.95, IntensityHigh, "ALTO RIESGO"},
		{0.7, IntensityHigh, "ALTO RIESGO"},
		{0.69, IntensityMedium, "RIESGO MODERADO"},
		{0.4, IntensityMedium, "RIESGO MODERADO"},
		{0.1, IntensityLow, "BAJO RIESGO"},
		{0, IntensityLow, "BAJO RIESGO"},
	}

	for _, tt := range tests {
		got := ClassifyRisk(tt.probability)
		assert.Equal(t, tt.level, got.Level, "probability %v", tt.probability)
		assert.Equal(t, tt.text, got.Text, "probability %v", tt.probability)
	}
}

func TestDescribeCondition(t *testing.T) {
	assert.Equal(t, "Muy Caliente", DescribeCondition(ConditionVeryHot).Name)

	fallback := DescribeCondition("hail")
	assert.Equal(t, "hail", fallback.Name)
	assert.Equal(t, colorNeutral, fallback.Color)
}

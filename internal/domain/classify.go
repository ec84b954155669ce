package domain

import "strings"

// MetricType identifies a weather variable.
type MetricType string

const (
	MetricTemperature   MetricType = "temperature"
	MetricPrecipitation MetricType = "precipitation"
	MetricWindSpeed     MetricType = "wind_speed"
	MetricHumidity      MetricType = "humidity"
	MetricHeatIndex     MetricType = "heat_index"
)

// MetricTypes lists the known metrics in display order.
func MetricTypes() []MetricType {
	return []MetricType{
		MetricTemperature,
		MetricPrecipitation,
		MetricWindSpeed,
		MetricHumidity,
		MetricHeatIndex,
	}
}

// ParseMetricType normalizes s and reports whether it names a known metric.
func ParseMetricType(s string) (MetricType, bool) {
	m := MetricType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MetricTypes() {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// Default thresholds used when a ThresholdConfig field is nil.
const (
	DefaultVeryHotThreshold           = 35.0
	DefaultVeryColdThreshold          = 5.0
	DefaultVeryWindyThreshold         = 25.0
	DefaultVeryWetThreshold           = 10.0
	DefaultVeryUncomfortableThreshold = 40.0
)

// Fixed humidity bands; humidity has no user-tunable threshold.
const (
	humidityVeryHumid   = 80.0
	humidityHumid       = 60.0
	humidityComfortable = 40.0
)

// windCalmCeiling is the speed at or below which wind is reported as calm.
const windCalmCeiling = 5.0

// ThresholdConfig holds optional per-condition cutoffs. A nil field means
// "use the default"; an explicit zero is honoured.
type ThresholdConfig struct {
	VeryHot           *float64 `json:"very_hot_threshold,omitempty" yaml:"very_hot_threshold,omitempty"`
	VeryCold          *float64 `json:"very_cold_threshold,omitempty" yaml:"very_cold_threshold,omitempty"`
	VeryWindy         *float64 `json:"very_windy_threshold,omitempty" yaml:"very_windy_threshold,omitempty"`
	VeryWet           *float64 `json:"very_wet_threshold,omitempty" yaml:"very_wet_threshold,omitempty"`
	VeryUncomfortable *float64 `json:"very_uncomfortable_threshold,omitempty" yaml:"very_uncomfortable_threshold,omitempty"`
}

// Effective returns a copy with every nil field replaced by its default.
func (t ThresholdConfig) Effective() ThresholdConfig {
	return ThresholdConfig{
		VeryHot:           ptr(t.veryHot()),
		VeryCold:          ptr(t.veryCold()),
		VeryWindy:         ptr(t.veryWindy()),
		VeryWet:           ptr(t.veryWet()),
		VeryUncomfortable: ptr(t.veryUncomfortable()),
	}
}

func (t ThresholdConfig) veryHot() float64 { return valueOr(t.VeryHot, DefaultVeryHotThreshold) }
func (t ThresholdConfig) veryCold() float64 {
	return valueOr(t.VeryCold, DefaultVeryColdThreshold)
}
func (t ThresholdConfig) veryWindy() float64 {
	return valueOr(t.VeryWindy, DefaultVeryWindyThreshold)
}
func (t ThresholdConfig) veryWet() float64 { return valueOr(t.VeryWet, DefaultVeryWetThreshold) }
func (t ThresholdConfig) veryUncomfortable() float64 {
	return valueOr(t.VeryUncomfortable, DefaultVeryUncomfortableThreshold)
}

// Intensity grades how extreme a condition label is.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Label colors.
const (
	colorRed     = "#ef4444"
	colorOrange  = "#f97316"
	colorBlue    = "#3b82f6"
	colorIndigo  = "#6366f1"
	colorViolet  = "#8b5cf6"
	colorGreen   = "#10b981"
	colorAmber   = "#f59e0b"
	colorCyan    = "#06b6d4"
	colorNeutral = "#6b7280"
)

// ConditionLabel is the display classification of a single reading.
type ConditionLabel struct {
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	Intensity Intensity `json:"intensity"`
}

// NormalLabel is returned for metrics the classifier does not know.
var NormalLabel = ConditionLabel{Label: "Normal", Color: colorNeutral, Intensity: IntensityLow}

// Classify maps a reading to a condition label. It is total: every value of
// every metric maps to exactly one label, and unknown metrics map to
// NormalLabel. A nil threshold falls back to its default; an explicit 0 is a
// real threshold of zero, not a request for the default.
func Classify(metric MetricType, value float64, thresholds ThresholdConfig) ConditionLabel {
	switch metric {
	case MetricTemperature:
		hot, cold := thresholds.veryHot(), thresholds.veryCold()
		switch {
		case value >= hot:
			return ConditionLabel{"Muy Caliente", colorRed, IntensityHigh}
		case value >= hot-5:
			return ConditionLabel{"Caliente", colorOrange, IntensityMedium}
		case value <= cold:
			return ConditionLabel{"Muy Frío", colorBlue, IntensityHigh}
		case value <= cold+5:
			return ConditionLabel{"Frío", colorIndigo, IntensityMedium}
		default:
			return ConditionLabel{"Templado", colorGreen, IntensityLow}
		}

	case MetricPrecipitation:
		wet := thresholds.veryWet()
		switch {
		case value >= wet:
			return ConditionLabel{"Muy Húmedo", colorBlue, IntensityHigh}
		case value >= wet/2:
			return ConditionLabel{"Húmedo", colorIndigo, IntensityMedium}
		case value > 0:
			return ConditionLabel{"Ligera Lluvia", colorViolet, IntensityLow}
		default:
			return ConditionLabel{"Seco", colorGreen, IntensityLow}
		}

	case MetricWindSpeed:
		windy := thresholds.veryWindy()
		switch {
		case value >= windy:
			return ConditionLabel{"Muy Ventoso", colorRed, IntensityHigh}
		case value >= windy/2:
			return ConditionLabel{"Ventoso", colorOrange, IntensityMedium}
		case value > windCalmCeiling:
			return ConditionLabel{"Brisa", colorGreen, IntensityLow}
		default:
			return ConditionLabel{"Calma", colorNeutral, IntensityLow}
		}

	case MetricHumidity:
		switch {
		case value >= humidityVeryHumid:
			return ConditionLabel{"Muy Húmedo", colorBlue, IntensityHigh}
		case value >= humidityHumid:
			return ConditionLabel{"Húmedo", colorIndigo, IntensityMedium}
		case value >= humidityComfortable:
			return ConditionLabel{"Cómodo", colorGreen, IntensityLow}
		default:
			return ConditionLabel{"Seco", colorAmber, IntensityMedium}
		}

	case MetricHeatIndex:
		unc := thresholds.veryUncomfortable()
		switch {
		case value >= unc:
			return ConditionLabel{"Muy Incómodo", colorRed, IntensityHigh}
		case value >= unc-5:
			return ConditionLabel{"Incómodo", colorOrange, IntensityMedium}
		default:
			return ConditionLabel{"Cómodo", colorGreen, IntensityLow}
		}

	default:
		return NormalLabel
	}
}

// RiskLevel buckets a condition probability.
type RiskLevel struct {
	Level Intensity `json:"level"`
	Text  string    `json:"text"`
	Color string    `json:"color"`
}

// Probability cutoffs for ClassifyRisk.
const (
	RiskHighProbability     = 0.7
	RiskModerateProbability = 0.4
)

// ClassifyRisk maps a probability in [0, 1] to a risk level.
func ClassifyRisk(probability float64) RiskLevel {
	switch {
	case probability >= RiskHighProbability:
		return RiskLevel{Level: IntensityHigh, Text: "ALTO RIESGO", Color: colorRed}
	case probability >= RiskModerateProbability:
		return RiskLevel{Level: IntensityMedium, Text: "RIESGO MODERADO", Color: colorAmber}
	default:
		return RiskLevel{Level: IntensityLow, Text: "BAJO RIESGO", Color: colorGreen}
	}
}

// ConditionInfo is display metadata for a named condition.
type ConditionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Risk        string `json:"risk"`
}

var conditionInfo = map[string]ConditionInfo{
	ConditionVeryHot: {
		Name:        "Muy Caliente",
		Description: "Temperaturas extremadamente altas que pueden ser peligrosas para actividades al aire libre",
		Color:       colorRed,
		Risk:        "Peligro por calor extremo",
	},
	ConditionVeryCold: {
		Name:        "Muy Frío",
		Description: "Temperaturas extremadamente bajas que requieren preparación especial",
		Color:       colorBlue,
		Risk:        "Riesgo de hipotermia",
	},
	ConditionVeryWindy: {
		Name:        "Muy Ventoso",
		Description: "Vientos fuertes que pueden afectar actividades al aire libre",
		Color:       colorCyan,
		Risk:        "Condiciones ventosas peligrosas",
	},
	ConditionVeryWet: {
		Name:        "Muy Húmedo",
		Description: "Precipitación intensa que puede cancelar planes al aire libre",
		Color:       colorViolet,
		Risk:        "Riesgo de tormentas intensas",
	},
	ConditionVeryUncomfortable: {
		Name:        "Muy Incómodo",
		Description: "Combinación de temperatura y humedad que puede causar malestar",
		Color:       colorAmber,
		Risk:        "Condiciones de malestar térmico",
	},
}

// DescribeCondition returns display metadata, falling back to a neutral
// entry named after the condition itself.
func DescribeCondition(condition string) ConditionInfo {
	if info, ok := conditionInfo[condition]; ok {
		return info
	}
	return ConditionInfo{
		Name:        condition,
		Description: "Condición climática",
		Color:       colorNeutral,
		Risk:        "Nivel de riesgo desconocido",
	}
}

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func ptr[T any](v T) *T { return &v }

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Temperature units accepted by the remote API.
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
)

// Query limits enforced before a request leaves the service.
const (
	MaxFutureDays = 60
	MaxYearsRange = 50
)

// Condition names understood by the remote API.
const (
	ConditionVeryHot           = "very_hot"
	ConditionVeryCold          = "very_cold"
	ConditionVeryWindy         = "very_windy"
	ConditionVeryWet           = "very_wet"
	ConditionVeryUncomfortable = "very_uncomfortable"
)

// AllConditions lists every condition in the order the dashboard shows them.
func AllConditions() []string {
	return []string{
		ConditionVeryHot,
		ConditionVeryCold,
		ConditionVeryWindy,
		ConditionVeryWet,
		ConditionVeryUncomfortable,
	}
}

// WeatherQuery is the probability request sent to the remote API.
type WeatherQuery struct {
	Latitude                 float64          `json:"latitude"`
	Longitude                float64          `json:"longitude"`
	DateOfYear               string           `json:"date_of_year,omitempty"` // MM-DD; today when empty
	SelectedConditions       []string         `json:"selected_conditions,omitempty"`
	TemperatureUnit          string           `json:"temperature_unit,omitempty"`
	CustomThresholds         *ThresholdConfig `json:"custom_thresholds,omitempty"`
	IncludeFuturePredictions bool             `json:"include_future_predictions"`
	FutureDays               int              `json:"future_days,omitempty"`
	Variables                []MetricType     `json:"variables,omitempty"`
	YearsRange               int              `json:"years_range,omitempty"`
}

// Validate checks coordinates, date and ranges once at the boundary.
func (q WeatherQuery) Validate() error {
	var errs []error
	if q.Latitude < -90 || q.Latitude > 90 {
		errs = append(errs, fmt.Errorf("latitude %g out of range [-90, 90]", q.Latitude))
	}
	if q.Longitude < -180 || q.Longitude > 180 {
		errs = append(errs, fmt.Errorf("longitude %g out of range [-180, 180]", q.Longitude))
	}
	if q.DateOfYear != "" {
		if _, err := ParseDateOfYear(q.DateOfYear); err != nil {
			errs = append(errs, err)
		}
	}
	switch q.TemperatureUnit {
	case "", UnitCelsius, UnitFahrenheit:
	default:
		errs = append(errs, fmt.Errorf("unknown temperature unit %q", q.TemperatureUnit))
	}
	if q.FutureDays < 0 || q.FutureDays > MaxFutureDays {
		errs = append(errs, fmt.Errorf("future_days %d out of range [0, %d]", q.FutureDays, MaxFutureDays))
	}
	if q.YearsRange < 0 || q.YearsRange > MaxYearsRange {
		errs = append(errs, fmt.Errorf("years_range %d out of range [0, %d]", q.YearsRange, MaxYearsRange))
	}
	for _, c := range q.SelectedConditions {
		if !isKnownCondition(c) {
			errs = append(errs, fmt.Errorf("unknown condition %q", c))
		}
	}
	for _, m := range q.Variables {
		if _, ok := ParseMetricType(string(m)); !ok {
			errs = append(errs, fmt.Errorf("unknown variable %q", m))
		}
	}
	return errors.Join(errs...)
}

// Metrics returns the requested variables, or every metric when none were named.
func (q WeatherQuery) Metrics() []MetricType {
	if len(q.Variables) == 0 {
		return MetricTypes()
	}
	return q.Variables
}

// Thresholds returns the custom thresholds, or an empty config when unset.
func (q WeatherQuery) Thresholds() ThresholdConfig {
	if q.CustomThresholds == nil {
		return ThresholdConfig{}
	}
	return *q.CustomThresholds
}

func isKnownCondition(c string) bool {
	for _, known := range AllConditions() {
		if strings.EqualFold(c, known) {
			return true
		}
	}
	return false
}

// Conditions holds one set of readings, either current or forecast.
type Conditions struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"wind_speed"`
	Humidity      float64 `json:"humidity"`
	HeatIndex     float64 `json:"heat_index"`
	Description   string  `json:"description,omitempty"`
}

// Value returns the reading for the given metric.
func (c Conditions) Value(m MetricType) (float64, bool) {
	switch m {
	case MetricTemperature:
		return c.Temperature, true
	case MetricPrecipitation:
		return c.Precipitation, true
	case MetricWindSpeed:
		return c.WindSpeed, true
	case MetricHumidity:
		return c.Humidity, true
	case MetricHeatIndex:
		return c.HeatIndex, true
	default:
		return 0, false
	}
}

// DataPoint is one historical observation, typically one per year.
type DataPoint struct {
	Date          string   `json:"date"`
	Temperature   float64  `json:"temperature"`
	Precipitation float64  `json:"precipitation"`
	WindSpeed     float64  `json:"wind_speed"`
	Humidity      float64  `json:"humidity"`
	HeatIndex     *float64 `json:"heat_index,omitempty"`
}

// Value returns the reading for the given metric. Heat index is optional.
func (p DataPoint) Value(m MetricType) (float64, bool) {
	switch m {
	case MetricTemperature:
		return p.Temperature, true
	case MetricPrecipitation:
		return p.Precipitation, true
	case MetricWindSpeed:
		return p.WindSpeed, true
	case MetricHumidity:
		return p.Humidity, true
	case MetricHeatIndex:
		if p.HeatIndex == nil {
			return 0, false
		}
		return *p.HeatIndex, true
	default:
		return 0, false
	}
}

// Probability is the remote API's likelihood estimate for one condition.
type Probability struct {
	Condition   string  `json:"condition"`
	Probability float64 `json:"probability"` // 0.0 to 1.0
	Threshold   float64 `json:"threshold"`
	Unit        string  `json:"unit"`
	Description string  `json:"description,omitempty"`
	IsEnabled   *bool   `json:"is_enabled,omitempty"`
}

// Enabled reports whether the user asked to see this condition. Upstream
// omits the flag for enabled conditions in older responses.
func (p Probability) Enabled() bool {
	return p.IsEnabled == nil || *p.IsEnabled
}

// FuturePrediction is one forecast day. Prediction carries point readings
// when the upstream model produced them.
type FuturePrediction struct {
	Date            string        `json:"date"`
	Probabilities   []Probability `json:"probabilities"`
	ConfidenceLevel float64       `json:"confidence_level"`
	Prediction      *Conditions   `json:"prediction,omitempty"`
}

// WeatherResponse is the remote API's probability response.
type WeatherResponse struct {
	Location           string             `json:"location"`
	CurrentConditions  Conditions         `json:"current_conditions"`
	Probabilities      []Probability      `json:"probabilities"`
	HistoricalData     []DataPoint        `json:"historical_data"`
	PredictionAccuracy float64            `json:"prediction_accuracy"`
	DataSource         string             `json:"data_source"`
	SampleSize         int                `json:"sample_size"`
	FuturePredictions  []FuturePrediction `json:"future_predictions,omitempty"`
	TemperatureUnit    string             `json:"temperature_unit,omitempty"`
	QueryDate          string             `json:"query_date,omitempty"`
}

// Series extracts the historical values for one metric, in data order.
func (r WeatherResponse) Series(m MetricType) []float64 {
	values := make([]float64, 0, len(r.HistoricalData))
	for _, p := range r.HistoricalData {
		if v, ok := p.Value(m); ok {
			values = append(values, v)
		}
	}
	return values
}

// Location is a named place returned by the location endpoints.
type Location struct {
	ID         int     `json:"id,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Name       string  `json:"name,omitempty"`
	Country    string  `json:"country,omitempty"`
	State      string  `json:"state,omitempty"`
	City       string  `json:"city,omitempty"`
	Timezone   string  `json:"timezone,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"` // set by coordinate lookups
}

// ConditionDescriptor describes one condition the remote API can evaluate.
type ConditionDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// ConditionCatalog lists the conditions and variables the remote API supports.
type ConditionCatalog struct {
	Conditions []ConditionDescriptor `json:"conditions"`
	Variables  []ConditionDescriptor `json:"variables"`
}

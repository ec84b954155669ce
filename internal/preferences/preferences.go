// Package preferences holds the dashboard's display and query settings and
// persists them between runs.
package preferences

import (
	"errors"
	"fmt"
	"slices"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
)

// Chart types the dashboard can render.
const (
	ChartLine = "line"
	ChartBar  = "bar"
	ChartArea = "area"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Default query settings.
const (
	DefaultFutureDays = 14
	DefaultYearsRange = 30
)

// allowedYearsRanges are the historical windows offered by the dashboard.
var allowedYearsRanges = []int{10, 20, 30, 50}

// Preferences are the user's display toggles and default query parameters.
type Preferences struct {
	ShowTemperature     bool   `json:"show_temperature" yaml:"show_temperature"`
	ShowPrecipitation   bool   `json:"show_precipitation" yaml:"show_precipitation"`
	ShowWindSpeed       bool   `json:"show_wind_speed" yaml:"show_wind_speed"`
	ShowHumidity        bool   `json:"show_humidity" yaml:"show_humidity"`
	ShowHeatIndex       bool   `json:"show_heat_index" yaml:"show_heat_index"`
	ChartType           string `json:"chart_type" yaml:"chart_type"`
	ShowStatistics      bool   `json:"show_statistics" yaml:"show_statistics"`
	ShowProbabilityBars bool   `json:"show_probability_bars" yaml:"show_probability_bars"`
	CompactView         bool   `json:"compact_view" yaml:"compact_view"`
	AutoRefresh         bool   `json:"auto_refresh" yaml:"auto_refresh"`
	Theme               string `json:"theme" yaml:"theme"`

	SelectedConditions []string               `json:"selected_conditions" yaml:"selected_conditions"`
	TemperatureUnit    string                 `json:"temperature_unit" yaml:"temperature_unit"`
	FutureDays         int                    `json:"future_days" yaml:"future_days"`
	YearsRange         int                    `json:"years_range" yaml:"years_range"`
	CustomThresholds   domain.ThresholdConfig `json:"custom_thresholds" yaml:"custom_thresholds"`
}

// Defaults returns the out-of-the-box preferences: every metric visible,
// line chart, all five conditions, celsius, 14 forecast days over 30 years.
func Defaults() Preferences {
	return Preferences{
		ShowTemperature:     true,
		ShowPrecipitation:   true,
		ShowWindSpeed:       true,
		ShowHumidity:        true,
		ShowHeatIndex:       true,
		ChartType:           ChartLine,
		ShowStatistics:      true,
		ShowProbabilityBars: true,
		CompactView:         false,
		AutoRefresh:         false,
		Theme:               ThemeLight,
		SelectedConditions:  domain.AllConditions(),
		TemperatureUnit:     domain.UnitCelsius,
		FutureDays:          DefaultFutureDays,
		YearsRange:          DefaultYearsRange,
	}
}

// Validate reports every invalid field at once.
func (p Preferences) Validate() error {
	var errs []error
	switch p.ChartType {
	case ChartLine, ChartBar, ChartArea:
	default:
		errs = append(errs, fmt.Errorf("chart_type %q must be one of line, bar, area", p.ChartType))
	}
	switch p.Theme {
	case ThemeLight, ThemeDark:
	default:
		errs = append(errs, fmt.Errorf("theme %q must be light or dark", p.Theme))
	}
	switch p.TemperatureUnit {
	case domain.UnitCelsius, domain.UnitFahrenheit:
	default:
		errs = append(errs, fmt.Errorf("temperature_unit %q must be celsius or fahrenheit", p.TemperatureUnit))
	}
	if p.FutureDays < 1 || p.FutureDays > domain.MaxFutureDays {
		errs = append(errs, fmt.Errorf("future_days %d out of range [1, %d]", p.FutureDays, domain.MaxFutureDays))
	}
	if !slices.Contains(allowedYearsRanges, p.YearsRange) {
		errs = append(errs, fmt.Errorf("years_range %d must be one of %v", p.YearsRange, allowedYearsRanges))
	}
	for _, c := range p.SelectedConditions {
		if !slices.Contains(domain.AllConditions(), c) {
			errs = append(errs, fmt.Errorf("unknown condition %q", c))
		}
	}
	return errors.Join(errs...)
}

// VisibleMetrics lists the metrics whose toggles are on, in display order.
func (p Preferences) VisibleMetrics() []domain.MetricType {
	shown := map[domain.MetricType]bool{
		domain.MetricTemperature:   p.ShowTemperature,
		domain.MetricPrecipitation: p.ShowPrecipitation,
		domain.MetricWindSpeed:     p.ShowWindSpeed,
		domain.MetricHumidity:      p.ShowHumidity,
		domain.MetricHeatIndex:     p.ShowHeatIndex,
	}
	metrics := make([]domain.MetricType, 0, len(shown))
	for _, m := range domain.MetricTypes() {
		if shown[m] {
			metrics = append(metrics, m)
		}
	}
	return metrics
}

// ApplyTo fills the query fields the caller left unset from the preferences.
// Fields already set on q win.
func (p Preferences) ApplyTo(q domain.WeatherQuery) domain.WeatherQuery {
	if len(q.SelectedConditions) == 0 {
		q.SelectedConditions = slices.Clone(p.SelectedConditions)
	}
	if q.TemperatureUnit == "" {
		q.TemperatureUnit = p.TemperatureUnit
	}
	if q.FutureDays == 0 && q.IncludeFuturePredictions {
		q.FutureDays = p.FutureDays
	}
	if q.YearsRange == 0 {
		q.YearsRange = p.YearsRange
	}
	if q.CustomThresholds == nil && p.CustomThresholds != (domain.ThresholdConfig{}) {
		t := p.CustomThresholds
		q.CustomThresholds = &t
	}
	if len(q.Variables) == 0 {
		q.Variables = p.VisibleMetrics()
	}
	return q
}

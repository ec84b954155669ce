// Package domain models weather outlooks built from historical-weather
// probability data.
//
// # Data Source
//
// Historical series, current conditions, condition probabilities and forecast
// days come from the remote weather-probability API (NASA POWER derived
// statistics and ML forecasts). This package never calls that API; it receives
// decoded [WeatherResponse] values and turns them into an [OutlookReport].
//
// # Metrics
//
//	temperature    °C (or °F when the query asks for fahrenheit)
//	precipitation  mm
//	wind_speed     km/h
//	humidity       % relative humidity
//	heat_index     perceived temperature combining air temperature and humidity
//
// Historical data points may omit heat_index; those points are skipped for
// that metric only.
//
// # Descriptive Statistics
//
// [CalculateStats] summarizes a series with min, max, mean, median and the
// population standard deviation (divide by n). [DetectOutliers] uses
// positional quartiles over a sorted copy:
//
//	Q1 = sorted[floor(0.25 * n)]
//	Q3 = sorted[floor(0.75 * n)]
//	outlier iff value < Q1 - 1.5*IQR or value > Q3 + 1.5*IQR
//
// The quartiles are not interpolated. Switching to a textbook percentile
// method would change which readings are flagged.
//
// # Condition Thresholds
//
// [Classify] maps one reading to a label, color and intensity. Missing
// thresholds fall back to one canonical default set:
//
//	very_hot_threshold           35 °C
//	very_cold_threshold           5 °C
//	very_windy_threshold         25 km/h
//	very_wet_threshold           10 mm
//	very_uncomfortable_threshold 40 (heat index)
//
// Ladders are inclusive on the "≥ threshold" side:
//
//	temperature:   ≥hot high | ≥hot-5 medium | ≤cold high | ≤cold+5 medium | else low
//	precipitation: ≥wet high | ≥wet/2 medium | >0 low | dry
//	wind_speed:    ≥windy high | ≥windy/2 medium | >5 breeze | calm
//	humidity:      ≥80 high | ≥60 medium | ≥40 comfortable | dry (medium)
//	heat_index:    ≥unc high | ≥unc-5 medium | else comfortable
//
// Condition probabilities are bucketed into risk levels by [ClassifyRisk]:
// ≥0.7 high, ≥0.4 moderate, otherwise low.
//
// # ID Generation
//
// Report IDs are deterministic SHA-256 hashes of lat|lon|date_of_year|years so
// that replaying the same query produces the same Kafka key. See
// [generateReportID].
package domain

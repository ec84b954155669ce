package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ProbabilityAssessment pairs an upstream probability with its risk bucket.
type ProbabilityAssessment struct {
	Probability
	Risk RiskLevel     `json:"risk"`
	Info ConditionInfo `json:"info"`
}

// ForecastDay is one labelled forecast day.
type ForecastDay struct {
	Date            string                        `json:"date"`
	ConfidenceLevel float64                       `json:"confidence_level"`
	Labels          map[MetricType]ConditionLabel `json:"labels,omitempty"`
	Probabilities   []ProbabilityAssessment       `json:"probabilities,omitempty"`
}

// CurrentReading is a labelled current-conditions reading.
type CurrentReading struct {
	Metric MetricType     `json:"metric"`
	Value  float64        `json:"value"`
	Label  ConditionLabel `json:"label"`
}

// OutlookReport is the analyzed form of a WeatherResponse.
type OutlookReport struct {
	ID                 string                  `json:"id"`
	Location           string                  `json:"location"`
	LocationSource     string                  `json:"location_source,omitempty"`
	Latitude           float64                 `json:"latitude"`
	Longitude          float64                 `json:"longitude"`
	DateOfYear         string                  `json:"date_of_year"`
	TemperatureUnit    string                  `json:"temperature_unit"`
	DataSource         string                  `json:"data_source,omitempty"`
	SampleSize         int                     `json:"sample_size"`
	PredictionAccuracy float64                 `json:"prediction_accuracy"`
	Thresholds         ThresholdConfig         `json:"thresholds"`
	Current            []CurrentReading        `json:"current"`
	Series             []SeriesSummary         `json:"series"`
	Probabilities      []ProbabilityAssessment `json:"probabilities"`
	Forecast           []ForecastDay           `json:"forecast,omitempty"`
	HistoricalData     []DataPoint             `json:"historical_data,omitempty"`
	GeneratedAt        time.Time               `json:"generated_at"`
}

// BuildReport summarizes, classifies and risk-grades a probability response.
// Metrics without historical data get no series entry.
func BuildReport(q WeatherQuery, resp WeatherResponse) OutlookReport {
	thresholds := q.Thresholds()
	metrics := q.Metrics()

	dateOfYear := q.DateOfYear
	if dateOfYear == "" {
		dateOfYear = CurrentDateOfYear().String()
	}
	unit := resp.TemperatureUnit
	if unit == "" {
		unit = q.TemperatureUnit
	}
	if unit == "" {
		unit = UnitCelsius
	}

	report := OutlookReport{
		ID:                 generateReportID(q.Latitude, q.Longitude, dateOfYear, q.YearsRange),
		Location:           resp.Location,
		Latitude:           q.Latitude,
		Longitude:          q.Longitude,
		DateOfYear:         dateOfYear,
		TemperatureUnit:    unit,
		DataSource:         resp.DataSource,
		SampleSize:         resp.SampleSize,
		PredictionAccuracy: resp.PredictionAccuracy,
		Thresholds:         thresholds.Effective(),
		Current:            make([]CurrentReading, 0, len(metrics)),
		Series:             make([]SeriesSummary, 0, len(metrics)),
		Probabilities:      assessProbabilities(resp.Probabilities),
		HistoricalData:     resp.HistoricalData,
		GeneratedAt:        clock.Now().UTC(),
	}

	for _, m := range metrics {
		if v, ok := resp.CurrentConditions.Value(m); ok {
			report.Current = append(report.Current, CurrentReading{
				Metric: m,
				Value:  v,
				Label:  Classify(m, v, thresholds),
			})
		}
		if s, ok := SummarizeSeries(m, resp.Series(m)); ok {
			report.Series = append(report.Series, s)
		}
	}

	for _, fp := range resp.FuturePredictions {
		report.Forecast = append(report.Forecast, forecastDay(fp, metrics, thresholds))
	}

	return report
}

func forecastDay(fp FuturePrediction, metrics []MetricType, thresholds ThresholdConfig) ForecastDay {
	day := ForecastDay{
		Date:            fp.Date,
		ConfidenceLevel: fp.ConfidenceLevel,
		Probabilities:   assessProbabilities(fp.Probabilities),
	}
	if fp.Prediction == nil {
		return day
	}
	day.Labels = make(map[MetricType]ConditionLabel, len(metrics))
	for _, m := range metrics {
		if v, ok := fp.Prediction.Value(m); ok {
			day.Labels[m] = Classify(m, v, thresholds)
		}
	}
	return day
}

// assessProbabilities keeps only enabled conditions.
func assessProbabilities(probs []Probability) []ProbabilityAssessment {
	out := make([]ProbabilityAssessment, 0, len(probs))
	for _, p := range probs {
		if !p.Enabled() {
			continue
		}
		out = append(out, ProbabilityAssessment{
			Probability: p,
			Risk:        ClassifyRisk(p.Probability),
			Info:        DescribeCondition(p.Condition),
		})
	}
	return out
}

// generateReportID produces a deterministic ID from the query's key fields so
// that replaying a query yields the same sink key.
func generateReportID(lat, lon float64, dateOfYear string, years int) string {
	input := fmt.Sprintf("%.4f|%.4f|%s|%d", lat, lon, dateOfYear, years)
	hash := sha256.Sum256([]byte(input))
	return "outlook-" + hex.EncodeToString(hash[:8])
}

package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for export formats other than json and csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat defaults to JSON when s is empty.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return ExportJSON, nil
	case "csv":
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Export is a ready-to-download payload.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

// exportEnvelope wraps a report with the settings used to produce it.
type exportEnvelope struct {
	Report      OutlookReport `json:"report"`
	Preferences any           `json:"preferences,omitempty"`
	ExportedAt  time.Time     `json:"exported_at"`
}

// historicalHeaders is the CSV column order for historical exports.
var historicalHeaders = []string{
	"date",
	string(MetricTemperature),
	string(MetricPrecipitation),
	string(MetricWindSpeed),
	string(MetricHumidity),
	string(MetricHeatIndex),
}

// ExportReport encodes a report as indented JSON (with optional preferences)
// or as a CSV of its historical data.
func ExportReport(report OutlookReport, format ExportFormat, preferences any) (Export, error) {
	switch format {
	case ExportJSON:
		data, err := json.MarshalIndent(exportEnvelope{
			Report:      report,
			Preferences: preferences,
			ExportedAt:  clock.Now().UTC(),
		}, "", "  ")
		if err != nil {
			return Export{}, fmt.Errorf("export json: %w", err)
		}
		return Export{
			Data:        data,
			ContentType: "application/json",
			Filename:    report.ID + ".json",
		}, nil

	case ExportCSV:
		rows := make([]map[string]any, 0, len(report.HistoricalData))
		for _, p := range report.HistoricalData {
			rows = append(rows, historicalRow(p))
		}
		return Export{
			Data:        []byte(FormatCSV(rows, historicalHeaders)),
			ContentType: "text/csv",
			Filename:    report.ID + ".csv",
		}, nil

	default:
		return Export{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func historicalRow(p DataPoint) map[string]any {
	row := map[string]any{
		"date":                      p.Date,
		string(MetricTemperature):   p.Temperature,
		string(MetricPrecipitation): p.Precipitation,
		string(MetricWindSpeed):     p.WindSpeed,
		string(MetricHumidity):      p.Humidity,
	}
	if p.HeatIndex != nil {
		row[string(MetricHeatIndex)] = *p.HeatIndex
	}
	return row
}

// FormatCSV renders rows as a header line followed by one line per row,
// joined with "\n". Strings containing a comma are double-quoted (embedded
// quotes doubled). Missing keys render as empty cells.
func FormatCSV(rows []map[string]any, headers []string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))

	cells := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			cells[i] = formatCell(row[h])
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if strings.Contains(val, ",") {
			return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

// Command summarize reads a CSV of yearly readings for one date and prints a
// JSON summary per metric column: descriptive statistics, outliers, trend and
// the condition label of the latest reading.
//
// The first column labels each row (year or date); every other column holds
// one metric, named as in the outlook API (temperature, precipitation,
// wind_speed, humidity, heat_index). Empty cells are skipped.
//
// Usage:
//
//	go run ./cmd/summarize \
//	  -csv data/madrid_0715.csv \
//	  -preferences preferences.yaml \
//	  -out summary.json
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/preferences"
)

type columnSummary struct {
	Column string                 `json:"column"`
	Rows   []string               `json:"rows"`
	Series domain.SeriesSummary   `json:"series"`
	Label  *domain.ConditionLabel `json:"latest_label,omitempty"`
}

type summary struct {
	Source     string                 `json:"source"`
	Thresholds domain.ThresholdConfig `json:"thresholds"`
	Columns    []columnSummary        `json:"columns"`
	Skipped    []string               `json:"skipped,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "CSV of yearly readings (first column is the row label)")
	prefsPath := flag.String("preferences", "", "optional preferences YAML supplying custom thresholds")
	outPath := flag.String("out", "", "output path for the JSON summary (default stdout)")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	thresholds := domain.ThresholdConfig{}
	if *prefsPath != "" {
		prefs, err := preferences.NewFileStore(*prefsPath).Load(context.Background())
		if err != nil {
			return err
		}
		thresholds = prefs.CustomThresholds
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *csvPath, err)
	}
	defer f.Close()

	s, err := summarize(f, thresholds)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", *csvPath, err)
	}
	s.Source = *csvPath

	for _, c := range s.Columns {
		label := "-"
		if c.Label != nil {
			label = c.Label.Label
		}
		log.Printf("%s: n=%d mean=%.2f trend=%s outliers=%d latest=%s",
			c.Column, c.Series.Stats.Count, c.Series.Stats.Mean, c.Series.Trend, len(c.Series.Outliers), label)
	}
	for _, col := range s.Skipped {
		log.Printf("%s: no numeric values, skipped", col)
	}

	out := os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", *outPath, err)
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// summarize reads the CSV from r and summarizes each metric column.
func summarize(r io.Reader, thresholds domain.ThresholdConfig) (summary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return summary{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return summary{}, fmt.Errorf("need a label column and at least one metric column, got %d columns", len(header))
	}

	values := make([][]float64, len(header))
	labels := make([][]string, len(header))
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary{}, fmt.Errorf("line %d: %w", line, err)
		}
		for i := 1; i < len(header) && i < len(row); i++ {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return summary{}, fmt.Errorf("line %d, column %s: %w", line, header[i], err)
			}
			values[i] = append(values[i], v)
			labels[i] = append(labels[i], row[0])
		}
	}

	s := summary{Thresholds: thresholds.Effective()}
	for i := 1; i < len(header); i++ {
		col := strings.TrimSpace(header[i])
		metric, known := domain.ParseMetricType(col)
		if !known {
			metric = domain.MetricType(col)
		}

		series, ok := domain.SummarizeSeries(metric, values[i])
		if !ok {
			s.Skipped = append(s.Skipped, col)
			continue
		}

		cs := columnSummary{Column: col, Rows: labels[i], Series: series}
		if known {
			label := domain.Classify(metric, series.Latest, thresholds)
			cs.Label = &label
		}
		s.Columns = append(s.Columns, cs)
	}
	return s, nil
}

package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseQueryEvent deserializes a RawEvent's value into a validated WeatherQuery.
func ParseQueryEvent(raw RawEvent) (WeatherQuery, error) {
	var q WeatherQuery
	if err := json.Unmarshal(raw.Value, &q); err != nil {
		return WeatherQuery{}, fmt.Errorf("parse query event: %w", err)
	}
	if err := q.Validate(); err != nil {
		return WeatherQuery{}, fmt.Errorf("parse query event: %w", err)
	}
	return q, nil
}

// SerializeReport marshals a report into an OutputEvent keyed by report ID.
func SerializeReport(report OutlookReport) (OutputEvent, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize outlook report: %w", err)
	}
	return OutputEvent{
		Key:   []byte(report.ID),
		Value: data,
		Headers: map[string]string{
			"report_id":    report.ID,
			"processed_at": report.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}

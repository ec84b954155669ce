package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
)

const (
	defaultFetchAttempts = 3
	defaultRetryDelay    = time.Second
)

// retryable is implemented by upstream errors that may succeed on a later attempt.
type retryable interface {
	Retryable() bool
}

// OutlookTransformer implements Transformer by fetching probabilities for a
// query, analyzing them into an OutlookReport, and optionally naming the
// location.
type OutlookTransformer struct {
	source      domain.ProbabilitySource
	resolver    domain.LocationResolver
	logger      *slog.Logger
	maxAttempts int
	retryDelay  time.Duration
}

// NewTransformer creates an OutlookTransformer. Pass a nil resolver to
// disable location enrichment.
func NewTransformer(source domain.ProbabilitySource, resolver domain.LocationResolver, logger *slog.Logger) *OutlookTransformer {
	return &OutlookTransformer{
		source:      source,
		resolver:    resolver,
		logger:      logger,
		maxAttempts: defaultFetchAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

func (t *OutlookTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	q, err := domain.ParseQueryEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	report, err := t.Analyze(ctx, q)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	return domain.SerializeReport(report)
}

// Analyze fetches and analyzes a single validated query.
func (t *OutlookTransformer) Analyze(ctx context.Context, q domain.WeatherQuery) (domain.OutlookReport, error) {
	resp, err := t.fetch(ctx, q)
	if err != nil {
		return domain.OutlookReport{}, err
	}

	report := domain.BuildReport(q, resp)
	report = domain.EnrichWithLocation(ctx, report, t.resolver, t.logger)

	t.logger.Debug("outlook report built",
		"report_id", report.ID,
		"location", report.Location,
		"series", len(report.Series),
		"probabilities", len(report.Probabilities),
	)
	return report, nil
}

// fetch retries retryable upstream failures with a linearly growing delay.
func (t *OutlookTransformer) fetch(ctx context.Context, q domain.WeatherQuery) (domain.WeatherResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		resp, err := t.source.GetProbabilities(ctx, q)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var r retryable
		if !errors.As(err, &r) || !r.Retryable() || attempt == t.maxAttempts {
			break
		}
		t.logger.Warn("probability fetch failed, retrying",
			"attempt", attempt,
			"lat", q.Latitude,
			"lon", q.Longitude,
			"error", err,
		)
		if !retry.SleepWithContext(ctx, time.Duration(attempt)*t.retryDelay) {
			return domain.WeatherResponse{}, ctx.Err()
		}
	}
	return domain.WeatherResponse{}, fmt.Errorf("fetch probabilities: %w", lastErr)
}

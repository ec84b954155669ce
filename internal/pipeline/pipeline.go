package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw outlook requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns a raw outlook request into a serialized report.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader publishes serialized reports to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline runs the request -> analysis -> report loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once at least one report has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no outlook reports published yet")
	}
	return nil
}

// Run processes batches until ctx is cancelled. Extract and load failures
// back off exponentially from 200ms up to 5s.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	b := &backoff{next: initialBackoff}
	for ctx.Err() == nil {
		if err := p.runBatch(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			if !b.wait(ctx) {
				break
			}
			continue
		}
		b.reset()
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// runBatch handles one batch. A returned error means the batch should be
// retried after a backoff; analysis failures are not errors.
func (p *Pipeline) runBatch(ctx context.Context) error {
	start := time.Now()

	requests, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("extract batch failed", "error", err)
		}
		return err
	}
	if len(requests) == 0 {
		return nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(requests)))
	p.metrics.BatchSize.Observe(float64(len(requests)))

	reports, analyzed := p.analyzeBatch(ctx, requests)
	if len(reports) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, reports); err != nil {
		p.logger.Error("load batch failed", "error", err, "reports", len(reports))
		return err
	}
	p.metrics.MessagesProduced.Add(float64(len(reports)))
	p.commit(ctx, analyzed)

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return nil
}

// analyzeBatch transforms every request. Failed requests are committed and
// dropped. A redelivered request (same key and value as an earlier one in the
// batch) is committed with the original but produces no second report.
// It returns the reports and the requests to commit once they are loaded.
func (p *Pipeline) analyzeBatch(ctx context.Context, requests []domain.RawEvent) ([]domain.OutputEvent, []domain.RawEvent) {
	reports := make([]domain.OutputEvent, 0, len(requests))
	analyzed := make([]domain.RawEvent, 0, len(requests))
	seen := make(map[string]bool, len(requests))

	for _, raw := range requests {
		id := string(raw.Key) + "\x00" + string(raw.Value)
		if seen[id] {
			p.logger.Debug("duplicate request in batch", "key", string(raw.Key), "offset", raw.Offset)
			analyzed = append(analyzed, raw)
			continue
		}

		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("analysis failed, skipping request",
				"error", err,
				"key", string(raw.Key),
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.AnalysisErrors.Inc()
			p.commit(ctx, []domain.RawEvent{raw})
			continue
		}

		seen[id] = true
		reports = append(reports, out)
		analyzed = append(analyzed, raw)
	}
	return reports, analyzed
}

func (p *Pipeline) commit(ctx context.Context, raws []domain.RawEvent) {
	for _, raw := range raws {
		if raw.Commit == nil {
			continue
		}
		if err := raw.Commit(ctx); err != nil {
			p.logger.Warn("commit offset failed", "error", err,
				"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
		}
	}
}

// backoff doubles the wait after each failure, capped at maxBackoff.
type backoff struct {
	next time.Duration
}

func (b *backoff) reset() { b.next = initialBackoff }

// wait sleeps for the current delay and reports false if ctx ended first.
func (b *backoff) wait(ctx context.Context) bool {
	if !retry.SleepWithContext(ctx, b.next) {
		return false
	}
	b.next = retry.NextBackoff(b.next, maxBackoff)
	return true
}

// Package pipeline drives strike matching: FileRunner for a one-shot feed and
// Pipeline for a long-running Kafka stream.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/lightning-alert-service/internal/domain"
	"github.com/couchcryptid/lightning-alert-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw strikes from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawStrike, error)
}

// Pipeline orchestrates the extract-match-load loop for stream mode.
type Pipeline struct {
	extractor BatchExtractor
	matcher   StrikeMatcher
	loader    AlertLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, m StrikeMatcher, l AlertLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		matcher:   m,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has handled a batch.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any strikes yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-match-load cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.StrikesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	alerts := p.match(rawBatch)
	if !p.load(ctx, alerts, backoff) {
		return false
	}

	for _, raw := range rawBatch {
		p.commitOffset(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return true
}

// match parses and classifies every record in the batch. Malformed records are
// logged and counted; they are still committed with the rest of the batch.
func (p *Pipeline) match(rawBatch []domain.RawStrike) []domain.Alert {
	var alerts []domain.Alert
	for _, raw := range rawBatch {
		strike, err := domain.ParseStrike(raw.Value)
		if err != nil {
			p.logger.Warn("malformed strike, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.StrikesInvalid.Inc()
			continue
		}

		alert, outcome := p.matcher.Match(strike)
		p.metrics.StrikeOutcomes.WithLabelValues(string(outcome)).Inc()
		if outcome == domain.OutcomeAlerted {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// load retries until the alerts are written or the context ends. Their tiles
// are already marked seen, so the batch must not be dropped. Returns false if
// the pipeline should stop.
func (p *Pipeline) load(ctx context.Context, alerts []domain.Alert, backoff *time.Duration) bool {
	if len(alerts) == 0 {
		return true
	}

	for {
		err := p.loader.LoadAlerts(ctx, alerts)
		if err == nil {
			break
		}
		p.logger.Error("load alerts failed", "error", err, "alerts", len(alerts))
		if !p.backoffOrStop(ctx, backoff) {
			return false
		}
	}
	*backoff = initialBackoff

	for i := range alerts {
		p.metrics.AlertsEmitted.WithLabelValues(string(alerts[i].Kind)).Inc()
	}
	return true
}

// backoffOrStop sleeps with the current backoff and advances it. Returns false
// if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawStrike) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

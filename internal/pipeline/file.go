package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/lightning-alert-service/internal/adapter/file"
	"github.com/couchcryptid/lightning-alert-service/internal/domain"
	"github.com/couchcryptid/lightning-alert-service/internal/observability"
)

// maxLineSize bounds a single strike record.
const maxLineSize = 1 << 20

// FileRunner matches a newline-delimited strike feed in one pass.
type FileRunner struct {
	matcher StrikeMatcher
	loader  AlertLoader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFileRunner creates a FileRunner writing alerts to l.
func NewFileRunner(m StrikeMatcher, l AlertLoader, logger *slog.Logger, metrics *observability.Metrics) *FileRunner {
	return &FileRunner{
		matcher: m,
		loader:  l,
		logger:  logger,
		metrics: metrics,
	}
}

// RunFile opens the strike feed at path, decompressing .gz and .zst, and
// processes it.
func (f *FileRunner) RunFile(ctx context.Context, path string) error {
	rc, err := file.Open(path)
	if err != nil {
		return fmt.Errorf("read strike feed: %w", err)
	}
	defer rc.Close()

	return f.Process(ctx, rc)
}

// Process reads strike records from r line by line and loads each alert as
// soon as it is found. A malformed record stops the run with an error wrapping
// domain.ErrMalformedStrike; alerts already loaded stay loaded.
func (f *FileRunner) Process(ctx context.Context, r io.Reader) error {
	f.metrics.PipelineRunning.Set(1)
	defer f.metrics.PipelineRunning.Set(0)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines, alerts int
	for sc.Scan() {
		lines++
		if err := ctx.Err(); err != nil {
			return err
		}

		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		f.metrics.StrikesConsumed.Inc()

		strike, err := domain.ParseStrike(data)
		if err != nil {
			f.metrics.StrikesInvalid.Inc()
			return fmt.Errorf("line %d: %w", lines, err)
		}

		alert, outcome := f.matcher.Match(strike)
		f.metrics.StrikeOutcomes.WithLabelValues(string(outcome)).Inc()
		if outcome != domain.OutcomeAlerted {
			continue
		}

		if err := f.loader.LoadAlerts(ctx, []domain.Alert{alert}); err != nil {
			return fmt.Errorf("line %d: %w", lines, err)
		}
		f.metrics.AlertsEmitted.WithLabelValues(string(alert.Kind)).Inc()
		alerts++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read strikes: %w", err)
	}

	f.logger.Info("strike feed processed", "lines", lines, "alerts", alerts)
	return nil
}

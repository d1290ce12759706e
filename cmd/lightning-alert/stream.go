package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/lightning-alert-service/internal/adapter/console"
	httpadapter "github.com/couchcryptid/lightning-alert-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/lightning-alert-service/internal/adapter/kafka"
	"github.com/couchcryptid/lightning-alert-service/internal/config"
	"github.com/couchcryptid/lightning-alert-service/internal/dedup"
	"github.com/couchcryptid/lightning-alert-service/internal/domain"
	"github.com/couchcryptid/lightning-alert-service/internal/observability"
	"github.com/couchcryptid/lightning-alert-service/internal/pipeline"
)

func newStreamCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stream ASSETS",
		Short: "Consume strikes from Kafka until interrupted",
		Long: `Consume strike records from KAFKA_SOURCE_TOPIC, print alert lines and
publish alert JSON to KAFKA_SINK_TOPIC. Serves /healthz, /readyz and /metrics
on HTTP_ADDR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd.Context(), cfg, logger, cmd.OutOrStdout(), args[0])
		},
	}
}

func newSeenSet(size int) (domain.SeenSet, error) {
	if size == 0 {
		return domain.NewKeySet(), nil
	}
	return dedup.NewLRU(size)
}

func runStream(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, assetsPath string) error {
	metrics := observability.NewMetrics()

	ix, err := loadIndex(cfg, logger, assetsPath, metrics)
	if err != nil {
		return err
	}

	seen, err := newSeenSet(cfg.DedupCacheSize)
	if err != nil {
		return err
	}
	matcher := domain.NewMatcher(ix, cfg.ZoomLevel, seen)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	// Publish before printing so a retried batch is not printed twice.
	loader := pipeline.MultiLoader{writer, console.NewWriter(out)}
	p := pipeline.New(reader, matcher, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, prometheus.DefaultGatherer, logger)

	logger.Info("stream mode starting",
		"source_topic", cfg.KafkaSourceTopic,
		"sink_topic", cfg.KafkaSinkTopic,
		"group_id", cfg.KafkaGroupID,
		"zoom", cfg.ZoomLevel,
		"dedup_cache_size", cfg.DedupCacheSize,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

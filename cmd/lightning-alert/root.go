package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/lightning-alert-service/internal/adapter/console"
	"github.com/couchcryptid/lightning-alert-service/internal/config"
	"github.com/couchcryptid/lightning-alert-service/internal/domain"
	"github.com/couchcryptid/lightning-alert-service/internal/observability"
	"github.com/couchcryptid/lightning-alert-service/internal/pipeline"
)

var errMissingInput = errors.New("please provide lightning file and asset file as input")

const pushTimeout = 5 * time.Second

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "lightning-alert STRIKES ASSETS",
		Short: "Alert asset owners about lightning strikes on their map tiles",
		Long: `Read a newline-delimited JSON lightning feed and an asset registry, and
print one line per alert:

  lightning alert for {assetOwner}:{assetName}   first strike on a tile
  heartbeat alert for {assetOwner}:{assetName}   every heartbeat on a tile

Inputs ending in .gz or .zst are decompressed. Asset registries ending in
.yaml or .yml are read as YAML, anything else as a JSON array.`,
		// Positional files are handled by RunE; without this cobra treats
		// them as unknown subcommands.
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errMissingInput
			}
			return runFile(cmd.Context(), cfg, logger, cmd.OutOrStdout(), args[0], args[1])
		},
	}

	root.AddCommand(newQuadkeyCmd(cfg))
	root.AddCommand(newStreamCmd(cfg, logger))
	return root
}

// loadIndex builds the asset index and enforces that it is not empty. A load
// failure is logged and surfaces as the empty-registry error.
func loadIndex(cfg *config.Config, logger *slog.Logger, path string, metrics *observability.Metrics) (*domain.AssetIndex, error) {
	ix, err := pipeline.LoadAssetIndex(path, cfg.ZoomLevel, logger)
	if err != nil {
		logger.Error("failed to load asset registry", "path", path, "error", err)
	}
	metrics.AssetsIndexed.Set(float64(ix.Len()))
	if ix.Len() == 0 {
		return nil, domain.ErrEmptyRegistry
	}
	return ix, nil
}

func runFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, strikesPath, assetsPath string) error {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetricsWithRegistry(reg)
	defer pushMetrics(cfg, logger, reg)

	ix, err := loadIndex(cfg, logger, assetsPath, metrics)
	if err != nil {
		return err
	}

	matcher := domain.NewMatcher(ix, cfg.ZoomLevel, domain.NewKeySet())
	runner := pipeline.NewFileRunner(matcher, console.NewWriter(out), logger, metrics)
	return runner.RunFile(ctx, strikesPath)
}

func pushMetrics(cfg *config.Config, logger *slog.Logger, g prometheus.Gatherer) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	if err := observability.Push(ctx, cfg.PushgatewayURL, cfg.PushgatewayJob, g); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}

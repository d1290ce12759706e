package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/lightning-alert-service/internal/adapter/file"
	"github.com/couchcryptid/lightning-alert-service/internal/domain"
)

// LoadAssetIndex reads the asset registry at path and indexes it by quadkey.
// On failure it returns an empty, non-nil index together with the error, so
// callers can log and fall through to the empty-registry check.
func LoadAssetIndex(path string, zoom int, logger *slog.Logger) (*domain.AssetIndex, error) {
	assets, err := file.LoadAssets(path)
	if err != nil {
		return domain.NewAssetIndex(), fmt.Errorf("load asset registry: %w", err)
	}

	ix := domain.BuildAssetIndex(assets, zoom, logger)
	logger.Info("asset registry loaded", "path", path, "records", len(assets), "quadkeys", ix.Len())
	return ix, nil
}

package domain

import "log/slog"

// Asset is a registry entry: a named, owned location pinned to one quadkey.
type Asset struct {
	Name    string `json:"assetName" yaml:"assetName"`
	Owner   string `json:"assetOwner" yaml:"assetOwner"`
	TileKey string `json:"quadKey" yaml:"quadKey" validate:"required,quadkey"`
}

// Validate checks that the record carries a well-formed quadKey.
func (a Asset) Validate() error {
	return validate.Struct(a)
}

// AssetRef is the value stored in an AssetIndex.
type AssetRef struct {
	Name  string
	Owner string
}

// AssetIndex maps quadkeys to assets. It is built once and read-only
// afterwards.
type AssetIndex struct {
	byKey map[string]AssetRef
}

// NewAssetIndex returns an empty index.
func NewAssetIndex() *AssetIndex {
	return &AssetIndex{byKey: make(map[string]AssetRef)}
}

// BuildAssetIndex indexes assets by quadkey.
//
// Records with a missing or malformed quadKey are skipped. When two records
// share a key the later one replaces the earlier one; every replacement is
// logged. Keys whose length differs from zoom are indexed but can never match
// a strike, so they are logged too.
func BuildAssetIndex(assets []Asset, zoom int, logger *slog.Logger) *AssetIndex {
	ix := &AssetIndex{byKey: make(map[string]AssetRef, len(assets))}

	for i, a := range assets {
		if err := a.Validate(); err != nil {
			logger.Warn("skipping invalid asset",
				"index", i,
				"asset_name", a.Name,
				"quad_key", a.TileKey,
				"error", err,
			)
			continue
		}

		if len(a.TileKey) != zoom {
			logger.Warn("asset quadkey does not match zoom level, it will never alert",
				"asset_name", a.Name,
				"quad_key", a.TileKey,
				"zoom", zoom,
			)
		}

		if prev, ok := ix.byKey[a.TileKey]; ok {
			logger.Warn("duplicate asset quadkey, last entry wins",
				"quad_key", a.TileKey,
				"replaced_owner", prev.Owner,
				"replaced_name", prev.Name,
				"owner", a.Owner,
				"name", a.Name,
			)
		}
		ix.byKey[a.TileKey] = AssetRef{Name: a.Name, Owner: a.Owner}
	}

	return ix
}

// Lookup returns the asset registered at key.
func (ix *AssetIndex) Lookup(key string) (AssetRef, bool) {
	ref, ok := ix.byKey[key]
	return ref, ok
}

// Len returns the number of indexed quadkeys.
func (ix *AssetIndex) Len() int {
	return len(ix.byKey)
}

package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/lightning-alert-service/internal/domain"
)

// LoadAssets parses the whole registry at path. JSON arrays are the default;
// ".yaml" and ".yml" registries hold a sequence with the same field names.
func LoadAssets(path string) ([]domain.Asset, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var assets []domain.Asset
	switch baseExt(path) {
	case ".yaml", ".yml":
		assets, err = decodeYAML(rc)
	default:
		assets, err = decodeJSON(rc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse asset registry %s: %w", path, err)
	}
	return assets, nil
}

func decodeJSON(r io.Reader) ([]domain.Asset, error) {
	var assets []domain.Asset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&assets); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after asset array")
	}
	return assets, nil
}

func decodeYAML(r io.Reader) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := yaml.NewDecoder(r).Decode(&assets); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return assets, nil
}

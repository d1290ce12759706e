package file

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/lightning-alert-service/internal/domain"
)

const assetsJSON = `[{"assetName": "Dante Street","quadKey": "023113203031","assetOwner": "6720"},
{"assetName": "Gleason Avenue","quadKey": "023112133002","assetOwner": "325"}]`

const assetsYAML = `- assetName: Dante Street
  quadKey: "023113203031"
  assetOwner: "6720"
- assetName: Gleason Avenue
  quadKey: "023112133002"
  assetOwner: "325"
`

var expectedAssets = []domain.Asset{
	{Name: "Dante Street", Owner: "6720", TileKey: "023113203031"},
	{Name: "Gleason Avenue", Owner: "325", TileKey: "023112133002"},
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpen_Plain(t *testing.T) {
	path := writeFile(t, "strikes.json", []byte("line one\nline two\n"))

	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}

func TestOpen_Gzip(t *testing.T) {
	path := writeFile(t, "strikes.json.gz", gzipBytes(t, "compressed line\n"))

	rc, err := Open(path)
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "compressed line\n", string(data))
	assert.NoError(t, rc.Close())
}

func TestOpen_Zstd(t *testing.T) {
	path := writeFile(t, "strikes.json.zst", zstdBytes(t, "zstd line\n"))

	rc, err := Open(path)
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "zstd line\n", string(data))
	assert.NoError(t, rc.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := writeFile(t, "strikes.json.gz", []byte("not gzip at all"))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open gzip")
}

func TestLoadAssets(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"json", "assets.json", []byte(assetsJSON)},
		{"json without extension", "assets", []byte(assetsJSON)},
		{"yaml", "assets.yaml", []byte(assetsYAML)},
		{"yml", "assets.yml", []byte(assetsYAML)},
		{"gzipped json", "assets.json.gz", gzipBytes(t, assetsJSON)},
		{"gzipped yaml", "assets.yaml.gz", gzipBytes(t, assetsYAML)},
		{"zstd json", "assets.json.zst", zstdBytes(t, assetsJSON)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)

			assets, err := LoadAssets(path)

			require.NoError(t, err)
			assert.Equal(t, expectedAssets, assets)
		})
	}
}

func TestLoadAssets_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"truncated json", "assets.json", `[{"assetName": "Dante Street",`},
		{"object instead of array", "assets.json", `{"assetName": "Dante Street"}`},
		{"empty json file", "assets.json", ``},
		{"trailing data", "assets.json", `[] []`},
		{"yaml mapping instead of sequence", "assets.yaml", "assetName: Dante Street\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, []byte(tt.data))

			_, err := LoadAssets(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse asset registry")
		})
	}
}

func TestLoadAssets_Missing(t *testing.T) {
	_, err := LoadAssets(filepath.Join(t.TempDir(), "assets.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBaseExt(t *testing.T) {
	assert.Equal(t, ".json", baseExt("a/b/assets.json"))
	assert.Equal(t, ".yaml", baseExt("assets.YAML.gz"))
	assert.Equal(t, ".json", baseExt("assets.json.zst"))
	assert.Equal(t, "", baseExt("assets"))
}

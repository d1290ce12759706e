// Package quadkey converts WGS-84 coordinates to quadtree tile keys.
//
// Tiles follow the Web Mercator (EPSG:3857) scheme used by slippy maps: at
// zoom z the world is a 2^z by 2^z grid, X grows eastward from -180° and Y
// grows southward from the northern Mercator limit. A quadkey interleaves
// the X and Y bits of a tile, one base-4 digit per zoom level, most
// significant level first:
//
//	digit = xbit + 2*ybit
//	0 = north-west, 1 = north-east, 2 = south-west, 3 = south-east
//
// A key's length equals its zoom level, and every key is a prefix of the
// keys of the tiles it contains.
package quadkey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MaxZoom is the deepest zoom level a key may encode.
const MaxZoom = 30

// MaxLatitude is the Web Mercator latitude limit. Points beyond it are
// clamped onto the first or last tile row.
const MaxLatitude = 85.05112878

// ErrInvalidKey is returned when a key is empty, too long, or contains a
// digit outside 0-3.
var ErrInvalidKey = errors.New("invalid quadkey")

// FromLatLon returns the key of the tile containing (lat, lon) at zoom.
// Zoom is clamped to [0, MaxZoom]; zoom 0 yields the empty key of the single
// world tile.
func FromLatLon(lat, lon float64, zoom int) string {
	z := clampZoom(zoom)
	if z == 0 {
		return ""
	}

	t := maptile.At(orb.Point{clampLongitude(lon), clampLatitude(lat)}, maptile.Zoom(z))

	// maptile.At truncates the fractional tile position, so lon=180 and the
	// southern limit land one past the last column/row.
	limit := uint32(1)<<uint(z) - 1
	t.X = min(t.X, limit)
	t.Y = min(t.Y, limit)

	return encode(t)
}

// Valid reports whether key is a well-formed quadkey.
func Valid(key string) bool {
	if key == "" || len(key) > MaxZoom {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '3' {
			return false
		}
	}
	return true
}

// Tile decodes key into its tile coordinates.
func Tile(key string) (maptile.Tile, error) {
	if !Valid(key) {
		return maptile.Tile{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	qk, err := strconv.ParseUint(key, 4, 64)
	if err != nil {
		return maptile.Tile{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, key, err)
	}
	return maptile.FromQuadkey(qk, maptile.Zoom(len(key))), nil
}

// Bound returns the geographic bounding box of the tile identified by key.
func Bound(key string) (orb.Bound, error) {
	t, err := Tile(key)
	if err != nil {
		return orb.Bound{}, err
	}
	return t.Bound(), nil
}

// Center returns the latitude and longitude of the tile's center.
func Center(key string) (lat, lon float64, err error) {
	b, err := Bound(key)
	if err != nil {
		return 0, 0, err
	}
	c := b.Center()
	return c.Lat(), c.Lon(), nil
}

// encode renders the tile's packed quadkey as a zero-padded base-4 string.
func encode(t maptile.Tile) string {
	s := strconv.FormatUint(t.Quadkey(), 4)
	if pad := int(t.Z) - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}

func clampZoom(z int) int {
	return max(0, min(z, MaxZoom))
}

func clampLatitude(lat float64) float64 {
	if math.IsNaN(lat) {
		return 0
	}
	return math.Max(-MaxLatitude, math.Min(lat, MaxLatitude))
}

func clampLongitude(lon float64) float64 {
	if math.IsNaN(lon) {
		return 0
	}
	return math.Max(-180, math.Min(lon, 180))
}

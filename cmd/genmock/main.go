// Command genmock writes a reproducible newline-delimited strike feed for an
// asset registry. A share of the strikes land inside registered tiles, the
// rest fall anywhere on the map, so the feed exercises alerting, dedup,
// heartbeats and misses.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -assets data/assets.json \
//	  -n 1000 -seed 42 \
//	  -out data/lightning.json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/couchcryptid/lightning-alert-service/internal/adapter/file"
	"github.com/couchcryptid/lightning-alert-service/internal/domain"
	"github.com/couchcryptid/lightning-alert-service/internal/quadkey"
)

var baseTime = time.Date(2015, time.November, 5, 21, 0, 0, 0, time.UTC)

// strikeRecord is one feed line in the field layout of the upstream sensor
// network.
type strikeRecord struct {
	FlashType       int     `json:"flashType"`
	StrikeTime      int64   `json:"strikeTime"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	PeakAmps        int     `json:"peakAmps"`
	Reserved        string  `json:"reserved"`
	ICHeight        int     `json:"icHeight"`
	ReceivedTime    int64   `json:"receivedTime"`
	NumberOfSensors int     `json:"numberOfSensors"`
	Multiplicity    int     `json:"multiplicity"`
}

type options struct {
	count          int
	seed           uint64
	hitRatio       float64
	heartbeatRatio float64
}

type stats struct {
	total, hits, heartbeats, ignored int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	assetsPath := flag.String("assets", "", "path to the asset registry the feed should target")
	outPath := flag.String("out", "", "output path (default stdout)")
	count := flag.Int("n", 1000, "number of strikes to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	hitRatio := flag.Float64("hit-ratio", 0.3, "share of strikes placed inside registered tiles")
	heartbeatRatio := flag.Float64("heartbeat-ratio", 0.05, "share of strikes that are sensor heartbeats")
	flag.Parse()

	if *assetsPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -assets")
	}

	assets, err := file.LoadAssets(*assetsPath)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	st, err := generate(out, assets, options{
		count:          *count,
		seed:           *seed,
		hitRatio:       *hitRatio,
		heartbeatRatio: *heartbeatRatio,
	})
	if err != nil {
		return err
	}

	log.Printf("strikes: %d total, %d on asset tiles, %d heartbeats, %d ignored flash types",
		st.total, st.hits, st.heartbeats, st.ignored)
	return nil
}

// generate writes opts.count strike lines to w. Output is fully determined by
// the assets and opts.seed.
func generate(w io.Writer, assets []domain.Asset, opts options) (stats, error) {
	var keys []string
	for _, a := range assets {
		if a.Validate() == nil {
			keys = append(keys, a.TileKey)
		}
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	var st stats
	for i := range opts.count {
		rec := strikeRecord{
			StrikeTime:      baseTime.Add(time.Duration(i) * 250 * time.Millisecond).UnixMilli(),
			Reserved:        "000",
			NumberOfSensors: 1 + rng.IntN(20),
			Multiplicity:    1 + rng.IntN(8),
		}
		rec.ReceivedTime = rec.StrikeTime + int64(rng.IntN(20))

		switch r := rng.Float64(); {
		case r < opts.heartbeatRatio:
			rec.FlashType = int(domain.FlashHeartbeat)
			st.heartbeats++
		case r < opts.heartbeatRatio+0.02:
			rec.FlashType = 2 // unused by the network, ignored by the matcher
			st.ignored++
		default:
			rec.FlashType = rng.IntN(2)
			rec.PeakAmps = rng.IntN(60000) - 30000
			rec.ICHeight = rng.IntN(20000)
		}

		if len(keys) > 0 && rng.Float64() < opts.hitRatio {
			lat, lon, err := pointInTile(rng, keys[rng.IntN(len(keys))])
			if err != nil {
				return st, err
			}
			rec.Latitude, rec.Longitude = lat, lon
			st.hits++
		} else {
			rec.Latitude = (rng.Float64()*2 - 1) * quadkey.MaxLatitude
			rec.Longitude = rng.Float64()*360 - 180
		}

		if err := enc.Encode(rec); err != nil {
			return st, fmt.Errorf("write strike %d: %w", i, err)
		}
		st.total++
	}

	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("flush strikes: %w", err)
	}
	return st, nil
}

// pointInTile returns a random point inside the tile, kept off its edges so
// float rounding cannot move it into a neighbouring tile.
func pointInTile(rng *rand.Rand, key string) (lat, lon float64, err error) {
	b, err := quadkey.Bound(key)
	if err != nil {
		return 0, 0, err
	}
	fx := 0.1 + 0.8*rng.Float64()
	fy := 0.1 + 0.8*rng.Float64()
	lon = b.Min.Lon() + fx*(b.Max.Lon()-b.Min.Lon())
	lat = b.Min.Lat() + fy*(b.Max.Lat()-b.Min.Lat())
	return lat, lon, nil
}

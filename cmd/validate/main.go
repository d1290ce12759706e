// Command validate checks an asset registry, and optionally a strike feed,
// before they are handed to lightning-alert. It reports every problem instead
// of stopping at the first one, then dry-runs the matcher to show what the
// feed would alert on.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -assets data/assets.json \
//	  -strikes data/lightning.json \
//	  -zoom 12
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/lightning-alert-service/internal/adapter/file"
	"github.com/couchcryptid/lightning-alert-service/internal/domain"
	"github.com/couchcryptid/lightning-alert-service/internal/quadkey"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	assets := flag.String("assets", "", "path to the asset registry (JSON or YAML, optionally .gz/.zst)")
	strikes := flag.String("strikes", "", "optional path to a newline-delimited strike feed")
	zoom := flag.Int("zoom", 12, "quadkey zoom level strikes are matched at")
	flag.Parse()

	if *assets == "" || *zoom < 1 || *zoom > quadkey.MaxZoom {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *assets, *strikes, *zoom); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, assetsPath, strikesPath string, zoom int) int {
	fmt.Fprintln(w, "=== Lightning Alert Input Validation ===")
	fmt.Fprintln(w)

	assets, err := file.LoadAssets(assetsPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load asset registry: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateAssetSchema(assets),
		validateZoomAlignment(assets, zoom),
		validateUniqueKeys(assets),
	}

	var strikes [][]byte
	if strikesPath != "" {
		strikes, err = readLines(strikesPath)
		if err != nil {
			fmt.Fprintf(w, "FATAL: load strike feed: %v\n", err)
			return 1
		}
		phases = append(phases, validateStrikes(strikes))
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d assets, %d strikes\n", len(assets), len(strikes))

	if strikesPath != "" {
		printDryRun(w, assets, strikes, zoom)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func readLines(path string) ([][]byte, error) {
	rc, err := file.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var lines [][]byte
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, bytes.Clone(sc.Bytes()))
	}
	return lines, sc.Err()
}

// ── Phase 1: asset records ──

func validateAssetSchema(assets []domain.Asset) *phase {
	p := &phase{name: "Phase 1: Asset Record Schema"}
	if len(assets) == 0 {
		p.errorf("registry has no records")
	}
	for i, a := range assets {
		if err := a.Validate(); err != nil {
			p.errorf("record %d (%q): invalid quadKey %q", i, a.Name, a.TileKey)
		}
		if strings.TrimSpace(a.Name) == "" {
			p.errorf("record %d: missing assetName", i)
		}
		if strings.TrimSpace(a.Owner) == "" {
			p.errorf("record %d (%q): missing assetOwner", i, a.Name)
		}
	}
	return p
}

// ── Phase 2: zoom ──

func validateZoomAlignment(assets []domain.Asset, zoom int) *phase {
	p := &phase{name: fmt.Sprintf("Phase 2: Quadkey Length = Zoom %d", zoom)}
	for i, a := range assets {
		if quadkey.Valid(a.TileKey) && len(a.TileKey) != zoom {
			p.errorf("record %d (%q): quadKey %q has %d digits, asset can never alert",
				i, a.Name, a.TileKey, len(a.TileKey))
		}
	}
	return p
}

// ── Phase 3: collisions ──

func validateUniqueKeys(assets []domain.Asset) *phase {
	p := &phase{name: "Phase 3: Unique Quadkeys"}

	byKey := make(map[string][]int)
	for i, a := range assets {
		byKey[a.TileKey] = append(byKey[a.TileKey], i)
	}

	keys := make([]string, 0, len(byKey))
	for k, idx := range byKey {
		if len(idx) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		idx := byKey[k]
		last := assets[idx[len(idx)-1]]
		p.errorf("quadKey %q shared by records %v; only %s:%s will alert", k, idx, last.Owner, last.Name)
	}
	return p
}

// ── Phase 4: strikes ──

func validateStrikes(lines [][]byte) *phase {
	p := &phase{name: "Phase 4: Strike Feed Schema"}
	for i, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if _, err := domain.ParseStrike(line); err != nil {
			p.errorf("line %d: %v", i+1, err)
		}
	}
	return p
}

// ── Dry run ──

// printDryRun matches the well-formed strikes and prints outcome counts and
// the alerts lightning-alert would emit. Malformed lines are skipped here.
func printDryRun(w io.Writer, assets []domain.Asset, lines [][]byte, zoom int) {
	ix := domain.BuildAssetIndex(assets, zoom, slog.New(slog.DiscardHandler))
	m := domain.NewMatcher(ix, zoom, nil)

	outcomes := make(map[domain.Outcome]int)
	alertsByAsset := make(map[string]int)
	for _, line := range lines {
		s, err := domain.ParseStrike(line)
		if err != nil {
			continue
		}
		alert, outcome := m.Match(s)
		outcomes[outcome]++
		if outcome == domain.OutcomeAlerted {
			alertsByAsset[alert.Message()]++
		}
	}

	fmt.Fprintf(w, "Dry run: %d alerted, %d suppressed, %d unmatched, %d ignored\n",
		outcomes[domain.OutcomeAlerted], outcomes[domain.OutcomeSuppressed],
		outcomes[domain.OutcomeUnmatched], outcomes[domain.OutcomeIgnored])

	msgs := make([]string, 0, len(alertsByAsset))
	for msg := range alertsByAsset {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	for _, msg := range msgs {
		fmt.Fprintf(w, "  %-50s x%d\n", msg, alertsByAsset[msg])
	}
}

package domain

import "github.com/couchcryptid/lightning-alert-service/internal/quadkey"

// Outcome describes what Match did with a strike.
type Outcome string

const (
	OutcomeAlerted    Outcome = "alerted"
	OutcomeSuppressed Outcome = "suppressed" // lightning on a tile that already alerted
	OutcomeUnmatched  Outcome = "unmatched"  // no asset on the strike's tile
	OutcomeIgnored    Outcome = "ignored"    // flash type is neither lightning nor heartbeat
)

// SeenSet records the quadkeys that have already raised a lightning alert.
type SeenSet interface {
	Contains(key string) bool
	Add(key string)
}

// KeySet is an unbounded SeenSet. It only grows.
type KeySet map[string]struct{}

// NewKeySet returns an empty KeySet.
func NewKeySet() KeySet {
	return make(KeySet)
}

func (s KeySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

// Matcher classifies strikes against an asset index. It owns its SeenSet and
// is not safe for concurrent use.
type Matcher struct {
	index *AssetIndex
	seen  SeenSet
	zoom  int
}

// NewMatcher creates a Matcher computing keys at zoom. A nil seen set
// defaults to an unbounded KeySet.
func NewMatcher(index *AssetIndex, zoom int, seen SeenSet) *Matcher {
	if seen == nil {
		seen = NewKeySet()
	}
	return &Matcher{index: index, seen: seen, zoom: zoom}
}

// Match returns the alert raised by s, if any.
//
// Lightning (flash types 0 and 1) alerts once per quadkey; later strikes on
// the same tile are suppressed. Heartbeats (9) alert on every match. Other
// flash types are ignored.
func (m *Matcher) Match(s Strike) (Alert, Outcome) {
	if !s.FlashType.IsLightning() && !s.FlashType.IsHeartbeat() {
		return Alert{}, OutcomeIgnored
	}

	key := quadkey.FromLatLon(s.Latitude, s.Longitude, m.zoom)
	ref, ok := m.index.Lookup(key)
	if !ok {
		return Alert{}, OutcomeUnmatched
	}

	if s.FlashType.IsHeartbeat() {
		return newAlert(AlertHeartbeat, ref, key, s), OutcomeAlerted
	}

	if m.seen.Contains(key) {
		return Alert{}, OutcomeSuppressed
	}
	m.seen.Add(key)
	return newAlert(AlertLightning, ref, key, s), OutcomeAlerted
}

package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// danteStrike lands on the Dante Street tile at zoom 12.
func danteStrike(flash FlashType) Strike {
	return Strike{Latitude: 33.5524951, Longitude: -94.5822016, FlashType: flash}
}

func newDanteMatcher() *Matcher {
	ix := BuildAssetIndex([]Asset{{Name: "Dante Street", Owner: "6720", TileKey: danteKey}}, 12, discardLogger())
	return NewMatcher(ix, 12, nil)
}

func TestMatcher_LightningAlerts(t *testing.T) {
	for _, flash := range []FlashType{FlashCloudToGround, FlashCloudToCloud} {
		m := newDanteMatcher()

		alert, outcome := m.Match(danteStrike(flash))

		require.Equal(t, OutcomeAlerted, outcome)
		assert.Equal(t, AlertLightning, alert.Kind)
		assert.Equal(t, "lightning alert for 6720:Dante Street", alert.Message())
		assert.Equal(t, danteKey, alert.QuadKey)
		assert.Equal(t, flash, alert.FlashType)
		assert.NotEmpty(t, alert.ID)
	}
}

func TestMatcher_LightningDedupedByQuadkey(t *testing.T) {
	m := newDanteMatcher()

	_, first := m.Match(danteStrike(FlashCloudToCloud))
	_, second := m.Match(danteStrike(FlashCloudToGround))
	// A different point inside the same tile is also suppressed.
	_, third := m.Match(Strike{Latitude: 33.5530, Longitude: -94.5830, FlashType: FlashCloudToGround})

	assert.Equal(t, OutcomeAlerted, first)
	assert.Equal(t, OutcomeSuppressed, second)
	assert.Equal(t, OutcomeSuppressed, third)
}

func TestMatcher_HeartbeatNeverDeduped(t *testing.T) {
	m := newDanteMatcher()

	for range 3 {
		alert, outcome := m.Match(danteStrike(FlashHeartbeat))
		require.Equal(t, OutcomeAlerted, outcome)
		assert.Equal(t, "heartbeat alert for 6720:Dante Street", alert.Message())
	}
}

func TestMatcher_HeartbeatDoesNotConsumeLightningDedup(t *testing.T) {
	m := newDanteMatcher()

	_, hb := m.Match(danteStrike(FlashHeartbeat))
	alert, lightning := m.Match(danteStrike(FlashCloudToGround))

	assert.Equal(t, OutcomeAlerted, hb)
	assert.Equal(t, OutcomeAlerted, lightning)
	assert.Equal(t, AlertLightning, alert.Kind)
}

func TestMatcher_Unmatched(t *testing.T) {
	m := newDanteMatcher()

	_, outcome := m.Match(Strike{Latitude: 40.7128, Longitude: -74.0060, FlashType: FlashCloudToGround})
	assert.Equal(t, OutcomeUnmatched, outcome)

	// An unmatched strike must not mark anything as seen.
	_, outcome = m.Match(danteStrike(FlashCloudToGround))
	assert.Equal(t, OutcomeAlerted, outcome)
}

func TestMatcher_IgnoresOtherFlashTypes(t *testing.T) {
	m := newDanteMatcher()

	for _, flash := range []FlashType{2, 3, 8, 10, -1} {
		_, outcome := m.Match(danteStrike(flash))
		assert.Equal(t, OutcomeIgnored, outcome, "flash type %d", flash)
	}
}

func TestMatcher_EmptyIndex(t *testing.T) {
	m := NewMatcher(NewAssetIndex(), 12, nil)

	_, outcome := m.Match(danteStrike(FlashCloudToGround))
	assert.Equal(t, OutcomeUnmatched, outcome)
}

func TestMatcher_UsesConfiguredZoom(t *testing.T) {
	ix := BuildAssetIndex([]Asset{{Name: "Coarse", Owner: "1", TileKey: "0231"}}, 4, discardLogger())
	m := NewMatcher(ix, 4, nil)

	alert, outcome := m.Match(danteStrike(FlashCloudToGround))

	require.Equal(t, OutcomeAlerted, outcome)
	assert.Equal(t, "0231", alert.QuadKey)
}

func TestMatcher_CustomSeenSet(t *testing.T) {
	seen := NewKeySet()
	seen.Add(danteKey)

	ix := BuildAssetIndex([]Asset{{Name: "Dante Street", Owner: "6720", TileKey: danteKey}}, 12, discardLogger())
	m := NewMatcher(ix, 12, seen)

	_, outcome := m.Match(danteStrike(FlashCloudToGround))
	assert.Equal(t, OutcomeSuppressed, outcome)
}

func TestAlert_StampedWithClock(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	m := newDanteMatcher()
	s := danteStrike(FlashCloudToGround)
	s.StrikeTime = 1386285909025

	alert, _ := m.Match(s)

	want := Alert{
		Kind:       AlertLightning,
		AssetOwner: "6720",
		AssetName:  "Dante Street",
		QuadKey:    danteKey,
		Latitude:   33.5524951,
		Longitude:  -94.5822016,
		FlashType:  FlashCloudToGround,
		StrikeTime: 1386285909025,
		AlertedAt:  fixed,
	}
	if diff := cmp.Diff(want, alert, cmpopts.IgnoreFields(Alert{}, "ID")); diff != "" {
		t.Fatalf("alert mismatch (-want +got):\n%s", diff)
	}
}

func TestSetClock_ResetToReal(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	SetClock(nil)

	assert.Less(t, time.Since(clock.Now()), time.Second)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrike(t *testing.T) {
	t.Run("full feed record", func(t *testing.T) {
		data := []byte(`{"flashType":1,"strikeTime":1386285909025,"latitude":33.5524951,"longitude":-94.5822016,"peakAmps":3034,"reserved":"000","icHeight":11829,"receivedTime":1386285919187,"numberOfSensors":17,"multiplicity":1}`)

		s, err := ParseStrike(data)

		require.NoError(t, err)
		assert.Equal(t, 33.5524951, s.Latitude)
		assert.Equal(t, -94.5822016, s.Longitude)
		assert.Equal(t, FlashCloudToCloud, s.FlashType)
		assert.Equal(t, int64(1386285909025), s.StrikeTime)
		assert.Equal(t, 3034.0, s.PeakAmps)
	})

	t.Run("minimal record", func(t *testing.T) {
		s, err := ParseStrike([]byte(`{"flashType":0, "latitude":33.5524951, "longitude":-94.5822016 }`))

		require.NoError(t, err)
		assert.Equal(t, FlashCloudToGround, s.FlashType)
		assert.Zero(t, s.StrikeTime)
		assert.Zero(t, s.PeakAmps)
	})

	t.Run("zero coordinates are valid", func(t *testing.T) {
		s, err := ParseStrike([]byte(`{"flashType":9,"latitude":0,"longitude":0}`))

		require.NoError(t, err)
		assert.Equal(t, FlashHeartbeat, s.FlashType)
	})

	t.Run("unknown flash type is still a valid record", func(t *testing.T) {
		s, err := ParseStrike([]byte(`{"flashType":4,"latitude":1,"longitude":1}`))

		require.NoError(t, err)
		assert.Equal(t, FlashType(4), s.FlashType)
	})
}

func TestParseStrike_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid JSON", `{invalid json`},
		{"empty input", ``},
		{"missing latitude", `{"flashType":0,"longitude":-94.58}`},
		{"missing longitude", `{"flashType":0,"latitude":33.55}`},
		{"missing flash type", `{"latitude":33.55,"longitude":-94.58}`},
		{"null latitude", `{"flashType":0,"latitude":null,"longitude":-94.58}`},
		{"string latitude", `{"flashType":0,"latitude":"33.55","longitude":-94.58}`},
		{"latitude out of range", `{"flashType":0,"latitude":91.5,"longitude":-94.58}`},
		{"longitude out of range", `{"flashType":0,"latitude":33.55,"longitude":-181}`},
		{"fractional flash type", `{"flashType":1.5,"latitude":33.55,"longitude":-94.58}`},
		{"array instead of object", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStrike([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedStrike)
		})
	}
}

func TestFlashType(t *testing.T) {
	tests := []struct {
		flash     FlashType
		lightning bool
		heartbeat bool
	}{
		{FlashCloudToGround, true, false},
		{FlashCloudToCloud, true, false},
		{FlashHeartbeat, false, true},
		{FlashType(2), false, false},
		{FlashType(-1), false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.lightning, tt.flash.IsLightning(), "flash type %d", tt.flash)
		assert.Equal(t, tt.heartbeat, tt.flash.IsHeartbeat(), "flash type %d", tt.flash)
	}
}

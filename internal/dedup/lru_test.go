package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/lightning-alert-service/internal/domain"
)

var _ domain.SeenSet = (*LRU)(nil)

func TestLRU_BasicContainsAdd(t *testing.T) {
	l, err := NewLRU(3)
	require.NoError(t, err)

	assert.False(t, l.Contains("023113203031"))
	l.Add("023113203031")
	assert.True(t, l.Contains("023113203031"))
	assert.Equal(t, 1, l.Len())
}

func TestLRU_Eviction(t *testing.T) {
	l, err := NewLRU(2)
	require.NoError(t, err)

	l.Add("a")
	l.Add("b")
	l.Add("c") // evicts "a"

	assert.False(t, l.Contains("a"), "a should have been evicted")
	assert.True(t, l.Contains("b"))
	assert.True(t, l.Contains("c"))
}

func TestLRU_ContainsPromotesEntry(t *testing.T) {
	l, err := NewLRU(2)
	require.NoError(t, err)

	l.Add("a")
	l.Add("b")

	// Touch "a" so "b" becomes least recently used.
	assert.True(t, l.Contains("a"))

	l.Add("c")

	assert.True(t, l.Contains("a"), "a was touched recently, should not be evicted")
	assert.False(t, l.Contains("b"), "b should have been evicted")
}

func TestLRU_InvalidSize(t *testing.T) {
	_, err := NewLRU(0)
	require.Error(t, err)
}

func TestLRU_WithMatcher(t *testing.T) {
	l, err := NewLRU(1)
	require.NoError(t, err)

	ix := domain.NewAssetIndex()
	m := domain.NewMatcher(ix, 12, l)

	// The matcher only writes to the seen set on a match; an empty index
	// leaves it untouched.
	_, outcome := m.Match(domain.Strike{Latitude: 33.55, Longitude: -94.58, FlashType: domain.FlashCloudToGround})
	assert.Equal(t, domain.OutcomeUnmatched, outcome)
	assert.Equal(t, 0, l.Len())
}

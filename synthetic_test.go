package arrivals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak.dev/arrivals/model"
)

func TestSyntheticKnownStop(t *testing.T) {
	s := NewSynthetic()
	s.TimeNow = fixedNow

	lookup, err := s.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	assert.Equal(t, "İSTANBUL ÜNİVERSİTESİ-CERRAHPAŞA AVCILAR KAMPÜSÜ", lookup.StationName)
	require.Len(t, lookup.Records, 4)

	lines := map[string]bool{}
	for _, rec := range lookup.Records {
		lines[rec.Line] = true
		assert.Greater(t, rec.ETAMinutes, 0)
		assert.NotEmpty(t, rec.Destination)
		assert.NotEmpty(t, rec.ClockTime)
	}
	assert.True(t, lines["142"])
	assert.True(t, lines["76D"])
}

func TestSyntheticUnknownStop(t *testing.T) {
	s := NewSynthetic()
	s.TimeNow = fixedNow

	lookup, err := s.Resolve(context.Background(), "000042")
	require.NoError(t, err)

	assert.Equal(t, "Durak 000042", lookup.StationName)
	assert.NotEmpty(t, lookup.Records)
}

func TestSyntheticDeterministic(t *testing.T) {
	s := NewSynthetic()
	s.TimeNow = fixedNow

	first, err := s.Resolve(context.Background(), "111650")
	require.NoError(t, err)
	second, err := s.Resolve(context.Background(), "111650")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, model.SourceSynthetic, s.Source())
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapItemUppercaseSchema(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	rec, ok := MapItem(map[string]any{
		"HAT_HAT_KODU": "142",
		"HAT_HAT_ADI":  "BOĞAZKÖY - AVCILAR",
		"DURAK_ADI":    "AVCILAR KAMPÜS",
		"DAKIKA":       float64(4),
		"KAPINO":       "A-1234",
	}, now)

	require.True(t, ok)
	assert.Equal(t, "142", rec.Line)
	assert.Equal(t, "BOĞAZKÖY - AVCILAR", rec.Destination)
	assert.Equal(t, "AVCILAR KAMPÜS", rec.StationName)
	assert.Equal(t, "A-1234", rec.VehicleTag)
	assert.Equal(t, 4, rec.ETAMinutes)
	assert.Equal(t, "14:34", rec.ClockTime)
}

func TestMapItemLowercaseSchema(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	rec, ok := MapItem(map[string]any{
		"line":      "76D",
		"direction": "Taksim",
		"minutes":   "3 dk",
	}, now)

	require.True(t, ok)
	assert.Equal(t, "76D", rec.Line)
	assert.Equal(t, "Taksim", rec.Destination)
	assert.Equal(t, 3, rec.ETAMinutes)
}

func TestMapItemClockOnly(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	rec, ok := MapItem(map[string]any{
		"hat":  "400A",
		"SAAT": "15:00",
	}, now)

	require.True(t, ok)
	assert.Equal(t, 30, rec.ETAMinutes)
	assert.Equal(t, "15:00", rec.ClockTime)
}

func TestMapItemNoTimeInfo(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	rec, ok := MapItem(map[string]any{"route": "34"}, now)
	require.True(t, ok)
	assert.Equal(t, -1, rec.ETAMinutes)
	assert.Equal(t, "", rec.ClockTime)
	assert.Equal(t, "Bilinmiyor", rec.Destination)

	rec.EnsureETA(7, now)
	assert.Equal(t, 7, rec.ETAMinutes)
	assert.Equal(t, "14:37", rec.ClockTime)
}

func TestMapItemNoLine(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	_, ok := MapItem(map[string]any{"DAKIKA": float64(4)}, now)
	assert.False(t, ok)

	_, ok = MapItem(map[string]any{"hat": "  "}, now)
	assert.False(t, ok)
}

func TestEnsureETALeavesKnownValues(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	rec := Record{Line: "142", ETAMinutes: 2, ClockTime: "14:32"}
	rec.EnsureETA(9, now)
	assert.Equal(t, 2, rec.ETAMinutes)
	assert.Equal(t, "14:32", rec.ClockTime)
}

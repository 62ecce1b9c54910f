package model

import (
	"strconv"
	"strings"
	"time"
)

// The upstream schemas are inconsistent: the same logical attribute
// shows up under different field names depending on which query alias
// or page script produced the item. Each attribute therefore has an
// ordered candidate list, resolved first-match.

var (
	lineKeys    = []string{"HAT_HAT_KODU", "HAT_KODU", "hat", "line", "route"}
	destKeys    = []string{"HAT_HAT_ADI", "HAT_ADI", "GUZERGAH", "direction", "destination", "towards"}
	stationKeys = []string{"DURAK_ADI", "DURAK_KISA_ADI", "stationName", "station", "name"}
	minuteKeys  = []string{"DAKIKA", "dk", "minutes", "estimated_minutes", "eta"}
	clockKeys   = []string{"SAAT", "arrival_time", "time"}
	vehicleKeys = []string{"KAPINO", "KAPI_NO", "plate", "vehicle"}
)

// MapItem normalizes one loosely-typed upstream item into a Record.
// Returns false when no route code can be found under any known field
// name. When the item carries no time information, ETAMinutes is left
// at -1 and ClockTime empty; the caller supplies its own fallback via
// EnsureETA.
func MapItem(item map[string]any, now time.Time) (Record, bool) {
	line := strings.TrimSpace(firstString(item, lineKeys))
	if line == "" {
		return Record{}, false
	}

	rec := Record{
		Line:        line,
		Destination: strings.TrimSpace(firstString(item, destKeys)),
		StationName: strings.TrimSpace(firstString(item, stationKeys)),
		VehicleTag:  strings.TrimSpace(firstString(item, vehicleKeys)),
		ETAMinutes:  -1,
	}
	if rec.Destination == "" {
		rec.Destination = "Bilinmiyor"
	}

	if minutes, ok := firstInt(item, minuteKeys); ok && minutes >= 0 {
		rec.ETAMinutes = minutes
		rec.ClockTime = ClockFromEta(minutes, now)
		return rec, true
	}

	if clock := strings.TrimSpace(firstString(item, clockKeys)); clock != "" {
		if eta, err := EtaFromClock(clock, now); err == nil {
			rec.ETAMinutes = eta
			rec.ClockTime = clock
		}
	}

	return rec, true
}

// EnsureETA fills in the given fallback for records whose source
// carried no time information.
func (r *Record) EnsureETA(fallback int, now time.Time) {
	if r.ETAMinutes >= 0 {
		return
	}
	r.ETAMinutes = fallback
	r.ClockTime = ClockFromEta(fallback, now)
}

func firstString(item map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := item[k]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case int:
			return strconv.Itoa(s)
		}
	}
	return ""
}

func firstInt(item map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		v, ok := item[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n), true
		case int:
			return n, true
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "dk"))); err == nil {
				return i, true
			}
		}
	}
	return 0, false
}

package model

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"time"
)

// DefaultETAMinutes is used when a source reports an arrival without
// any usable time information.
const DefaultETAMinutes = 5

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// EtaFromClock converts a wall-clock "HH:MM" into minutes from now. A
// target earlier than the current time of day is assumed to be
// tomorrow.
func EtaFromClock(clock string, now time.Time) (int, error) {
	m := clockPattern.FindStringSubmatch(clock)
	if m == nil {
		return 0, fmt.Errorf("invalid clock time: %q", clock)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])

	target := h*60 + mm
	current := now.Hour()*60 + now.Minute()

	eta := target - current
	if eta < 0 {
		eta += minutesPerDay
	}
	return eta, nil
}

// ClockFromEta formats now+eta as a wall-clock "HH:MM". The two
// conversions are mutual inverses modulo day rollover.
func ClockFromEta(etaMinutes int, now time.Time) string {
	return now.Add(time.Duration(etaMinutes) * time.Minute).Format("15:04")
}

// PseudoETA derives a stable placeholder ETA for sources that don't
// report live times. It hashes (route, stop, current minute) into
// 1..15 minutes, so repeated queries within the same minute agree.
// This is documented placeholder policy, not a prediction.
func PseudoETA(route, stopCode string, now time.Time) int {
	h := fnv.New32a()
	h.Write([]byte(route))
	h.Write([]byte{'|'})
	h.Write([]byte(stopCode))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(now.Unix()/60, 10)))
	return 1 + int(h.Sum32()%15)
}

// SeedETA is the static-dataset flavor of placeholder ETA: purely a
// function of (route, stop) and the route's position in the candidate
// list, with no time component at all.
func SeedETA(route, stopCode string, position int) int {
	h := fnv.New32a()
	h.Write([]byte(route))
	h.Write([]byte(stopCode))
	return (position+1)*3 + int(h.Sum32()%5)
}

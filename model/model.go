package model

import (
	"sort"
	"time"
)

// Holds the canonical types every upstream source is normalized into.

// Source identifies which upstream produced a result. Callers are
// expected to disclose it: StaticDataset and Synthetic records are
// placeholder data, not observed arrivals.
type Source string

const (
	SourceMobileAPI Source = "mobile-api"
	SourceScrape    Source = "scrape"
	SourceDataset   Source = "static-dataset"
	SourceSynthetic Source = "synthetic"
)

// Live reports whether the source reflects data observed upstream, as
// opposed to synthesized placeholders.
func (s Source) Live() bool {
	return s == SourceMobileAPI || s == SourceScrape
}

// Record is one estimated vehicle arrival at a stop. ETAMinutes is
// always set and is the sole sort key.
type Record struct {
	Line        string
	Destination string
	ETAMinutes  int
	ClockTime   string // "HH:MM" wall clock, local time
	VehicleTag  string
	StationName string
}

// Lookup is what a single adapter produces: the station name as that
// source reports it, plus zero or more records.
type Lookup struct {
	StationName string
	Records     []Record
}

// Result is the resolver's answer for a stop query. Records are in
// ascending ETA order. Source tags data provenance.
type Result struct {
	StationName string
	Records     []Record
	AsOf        time.Time
	Source      Source
}

// SortRecords orders records by ascending ETA. The sort is stable so
// ties keep their discovery order.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ETAMinutes < records[j].ETAMinutes
	})
}

// LineDirection returns the human destination text commonly associated
// with a route code, for sources that only know the route.
func LineDirection(route string) string {
	if d, ok := lineDirections[route]; ok {
		return d
	}
	return "Hat " + route
}

var lineDirections = map[string]string{
	"142":  "Boğazköy - Avcılar - Metrobüs",
	"144A": "Avcılar - Bahçeşehir",
	"76":   "Avcılar - Eminönü",
	"76D":  "Avcılar - Taksim",
	"400A": "Bahçeşehir - Avcılar Metrobüs",
	"400T": "Esenyurt - Taksim",
	"34":   "Merkez - Şehir",
	"98M":  "Metrobüs Hattı",
}

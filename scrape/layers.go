package scrape

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"durak.dev/arrivals/model"
)

// One extraction strategy against a parsed stop-detail page. Layers
// are attempted in declaration order; a layer reporting zero records
// simply defers to the next one.
type layer interface {
	name() string
	extract(doc *goquery.Document, now time.Time) []model.Record
}

var extractionLayers = []layer{
	lineListLayer{},
	scriptJSONLayer{},
	looseScriptLayer{},
	tableDivLayer{},
}

var (
	// "AVCILAR (23:00) 2 dk"
	lineInfoPattern = regexp.MustCompile(`^(.*?)\s*\((\d{1,2}:\d{2})\)\s*(\d+)\s*dk`)

	// Route codes look like "34", "142", "76D", "400A".
	routePattern = regexp.MustCompile(`^\d{1,3}[A-Z]{0,2}$`)

	minutePattern = regexp.MustCompile(`(\d{1,3})\s*dk\b`)

	// Inline data assignments the site has shipped over time. The
	// value itself is parsed with a json.Decoder from this point on,
	// which gets nesting right where a regex capture wouldn't.
	scriptAssignPattern = regexp.MustCompile(`(?:arrivals|busData|stationData)\s*=\s*`)

	looseRoutePattern = regexp.MustCompile(`\b\d{1,3}[A-Z]{0,2}\b`)
)

// lineListLayer handles the modern structural markup: a container of
// repeated line items, each a route code plus an info string of the
// form "DIRECTION (HH:MM) N dk". This is the high-confidence path.
type lineListLayer struct{}

func (lineListLayer) name() string { return "line-list" }

func (lineListLayer) extract(doc *goquery.Document, now time.Time) []model.Record {
	var records []model.Record

	doc.Find("div.line-item").Each(func(i int, item *goquery.Selection) {
		route := strings.TrimSpace(item.Find("span, strong, b").First().Text())
		if !routePattern.MatchString(route) {
			return
		}

		info := strings.TrimSpace(item.Find("p").First().Text())
		if info == "" {
			info = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item.Text()), route))
		}

		m := lineInfoPattern.FindStringSubmatch(info)
		if m == nil {
			return
		}
		minutes, err := strconv.Atoi(m[3])
		if err != nil {
			return
		}

		records = append(records, model.Record{
			Line:        route,
			Destination: strings.TrimSpace(m[1]),
			ETAMinutes:  minutes,
			ClockTime:   m[2],
		})
	})

	return records
}

// scriptJSONLayer scans inline scripts for data assignments and maps
// whatever parses as strict JSON through the common item mapper.
type scriptJSONLayer struct{}

func (scriptJSONLayer) name() string { return "script-json" }

func (scriptJSONLayer) extract(doc *goquery.Document, now time.Time) []model.Record {
	var records []model.Record

	doc.Find("script").Each(func(i int, script *goquery.Selection) {
		text := script.Text()
		for _, loc := range scriptAssignPattern.FindAllStringIndex(text, -1) {
			var value any
			// Decode exactly one JSON value after the assignment;
			// whatever script follows is ignored.
			dec := json.NewDecoder(strings.NewReader(text[loc[1]:]))
			if err := dec.Decode(&value); err != nil {
				continue
			}
			for _, item := range decodeItems(value) {
				rec, ok := model.MapItem(item, now)
				if !ok {
					continue
				}
				rec.EnsureETA(model.DefaultETAMinutes, now)
				records = append(records, rec)
			}
		}
	})

	return records
}

// decodeItems flattens a decoded JSON value into item maps. A list is
// taken as-is; an object either holds nested lists or is itself one
// item.
func decodeItems(value any) []map[string]any {
	switch v := value.(type) {
	case []any:
		var items []map[string]any
		for _, entry := range v {
			if item, ok := entry.(map[string]any); ok {
				items = append(items, item)
			}
		}
		return items

	case map[string]any:
		var items []map[string]any
		for _, nested := range v {
			list, ok := nested.([]any)
			if !ok {
				continue
			}
			for _, entry := range list {
				if item, ok := entry.(map[string]any); ok {
					items = append(items, item)
				}
			}
		}
		if len(items) > 0 {
			return items
		}
		return []map[string]any{v}
	}

	return nil
}

// looseScriptLayer is the low-confidence heuristic: pair bare
// route-code-like tokens in script text with nearby "N dk" minute
// tokens, positionally, when no structured data is present.
type looseScriptLayer struct{}

func (looseScriptLayer) name() string { return "loose-script" }

const looseMaxPairs = 5

func (looseScriptLayer) extract(doc *goquery.Document, now time.Time) []model.Record {
	var text strings.Builder
	doc.Find("script").Each(func(i int, script *goquery.Selection) {
		text.WriteString(script.Text())
		text.WriteString("\n")
	})
	scripts := text.String()

	routes := looseRouteTokens(scripts)
	minutes := minutePattern.FindAllStringSubmatch(scripts, -1)
	if len(routes) == 0 || len(minutes) == 0 {
		return nil
	}

	n := len(routes)
	if len(minutes) < n {
		n = len(minutes)
	}
	if n > looseMaxPairs {
		n = looseMaxPairs
	}

	records := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		eta, err := strconv.Atoi(minutes[i][1])
		if err != nil {
			continue
		}
		records = append(records, model.Record{
			Line:        routes[i],
			Destination: model.LineDirection(routes[i]),
			ETAMinutes:  eta,
			ClockTime:   model.ClockFromEta(eta, now),
		})
	}
	return records
}

// looseRouteTokens finds route-code-like tokens, skipping ones that
// are really clock fragments ("23:00") or minute counts ("2 dk").
func looseRouteTokens(text string) []string {
	var routes []string
	for _, loc := range looseRoutePattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && text[start-1] == ':' {
			continue
		}
		rest := strings.TrimLeft(text[end:], " \t")
		if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "dk") {
			continue
		}
		routes = append(routes, text[start:end])
	}
	return routes
}

// tableDivLayer is the catch-all: table rows and divs whose class
// names suggest arrival content, with the first cell as route code.
type tableDivLayer struct{}

func (tableDivLayer) name() string { return "table-div" }

var arrivalClassHints = []string{"bus", "otobus", "arrival", "line", "hat", "sefer", "schedule"}

func (tableDivLayer) extract(doc *goquery.Document, now time.Time) []model.Record {
	var records []model.Record

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		route := strings.TrimSpace(cells.First().Text())
		if !routePattern.MatchString(route) {
			return
		}
		// Cell texts are joined explicitly so adjacent numbers don't
		// run together.
		var parts []string
		cells.Each(func(j int, cell *goquery.Selection) {
			parts = append(parts, strings.TrimSpace(cell.Text()))
		})
		records = append(records, recordFromText(route, strings.Join(parts, " "), now))
	})
	if len(records) > 0 {
		return records
	}

	doc.Find("div[class]").Each(func(i int, div *goquery.Selection) {
		class, _ := div.Attr("class")
		if !classSuggestsArrivals(class) {
			return
		}
		fields := strings.Fields(div.Text())
		if len(fields) == 0 {
			return
		}
		route := fields[0]
		if !routePattern.MatchString(route) {
			return
		}
		records = append(records, recordFromText(route, div.Text(), now))
	})

	return records
}

func classSuggestsArrivals(class string) bool {
	class = strings.ToLower(class)
	for _, hint := range arrivalClassHints {
		if strings.Contains(class, hint) {
			return true
		}
	}
	return false
}

func recordFromText(route, text string, now time.Time) model.Record {
	eta := model.DefaultETAMinutes
	if m := minutePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			eta = v
		}
	}
	return model.Record{
		Line:        route,
		Destination: model.LineDirection(route),
		ETAMinutes:  eta,
		ClockTime:   model.ClockFromEta(eta, now),
	}
}

// Package scrape extracts arrivals from the public stop-detail page.
// The page's markup has drifted repeatedly, so extraction runs through
// an ordered set of layers, each targeting one page structure the site
// has used at some point. The first layer producing any record wins.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"durak.dev/arrivals/fetch"
	"durak.dev/arrivals/model"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultMaxSize = 4 << 20 // 4 MB
)

type Adapter struct {
	// URLTemplate receives the stop code via %s, e.g.
	// "https://iett.istanbul/StationDetail?dkod=%s"
	URLTemplate string
	Fetcher     fetch.Fetcher
	Timeout     time.Duration
	TimeNow     func() time.Time
	Logger      *slog.Logger
}

func NewAdapter(urlTemplate string) *Adapter {
	return &Adapter{
		URLTemplate: urlTemplate,
		Fetcher:     fetch.HTTP(),
		Timeout:     DefaultTimeout,
		TimeNow:     time.Now,
	}
}

func (a *Adapter) Source() model.Source {
	return model.SourceScrape
}

func (a *Adapter) Resolve(ctx context.Context, stopCode string) (model.Lookup, error) {
	body, err := a.Fetcher.Get(
		ctx,
		fmt.Sprintf(a.URLTemplate, stopCode),
		fetch.BrowserHeaders(),
		fetch.Options{
			Timeout: a.Timeout,
			MaxSize: DefaultMaxSize,
		},
	)
	if err != nil {
		return model.Lookup{}, errors.Wrap(err, "fetching stop page")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.Lookup{}, errors.Wrap(err, "parsing stop page")
	}

	lookup := model.Lookup{StationName: stationName(doc)}

	now := a.TimeNow()
	for _, l := range extractionLayers {
		records := l.extract(doc, now)
		if len(records) == 0 {
			continue
		}
		if a.Logger != nil {
			a.Logger.Debug("extraction layer matched",
				"layer", l.name(), "records", len(records))
		}
		lookup.Records = records
		return lookup, nil
	}

	return model.Lookup{}, nil
}

// stationName pulls a human station name out of the page, trying the
// title, then the first substantial h1, then a meta description that
// mentions a stop.
func stationName(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	for _, sep := range []string{"|", " - "} {
		if idx := strings.LastIndex(title, sep); idx >= 0 {
			if name := strings.TrimSpace(title[idx+len(sep):]); len(name) >= 3 {
				return name
			}
		}
	}

	name := ""
	doc.Find("h1").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) >= 5 {
			name = text
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	desc = strings.TrimSpace(desc)
	lower := strings.ToLower(desc)
	if strings.Contains(lower, "durak") || strings.Contains(lower, "stop") {
		return desc
	}

	return ""
}

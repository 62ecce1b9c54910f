// Package arrivals answers one question: which vehicles are
// approaching a given transit stop, and when. No single upstream is
// reliable, so a resolver walks an ordered chain of source adapters
// and returns the first non-empty answer, tagged with its provenance.
package arrivals

import (
	"context"
	"log/slog"
	"time"

	"durak.dev/arrivals/model"
)

// Adapter turns one upstream source into arrival records. An empty
// lookup or an error both mean "this source has nothing"; the resolver
// treats them identically and moves on.
type Adapter interface {
	Source() model.Source
	Resolve(ctx context.Context, stopCode string) (model.Lookup, error)
}

// Resolver walks its adapters in priority order. The ordering encodes
// trust and cost: cheap token reuse before an expensive scrape before
// last-resort synthesis. Stages run strictly sequentially; a source
// that failed is not retried within the same query.
type Resolver struct {
	Adapters []Adapter

	// Fallback must always produce records. Defaults to the built-in
	// synthetic table.
	Fallback Adapter

	TimeNow func() time.Time
	Logger  *slog.Logger
}

func NewResolver(adapters ...Adapter) *Resolver {
	return &Resolver{
		Adapters: adapters,
		Fallback: NewSynthetic(),
		TimeNow:  time.Now,
	}
}

// Resolve returns arrivals for a stop code. It never fails: when every
// adapter comes up empty the synthetic fallback supplies a clearly
// tagged placeholder result.
func (r *Resolver) Resolve(ctx context.Context, stopCode string) model.Result {
	now := r.timeNow()

	for _, adapter := range r.Adapters {
		lookup, err := adapter.Resolve(ctx, stopCode)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("source failed",
					"source", adapter.Source(), "stop", stopCode, "error", err)
			}
			continue
		}
		if len(lookup.Records) == 0 {
			if r.Logger != nil {
				r.Logger.Debug("source empty",
					"source", adapter.Source(), "stop", stopCode)
			}
			continue
		}

		model.SortRecords(lookup.Records)
		return model.Result{
			StationName: lookup.StationName,
			Records:     lookup.Records,
			AsOf:        now,
			Source:      adapter.Source(),
		}
	}

	fallback := r.Fallback
	if fallback == nil {
		fallback = NewSynthetic()
	}
	lookup, _ := fallback.Resolve(ctx, stopCode)
	model.SortRecords(lookup.Records)

	return model.Result{
		StationName: lookup.StationName,
		Records:     lookup.Records,
		AsOf:        now,
		Source:      fallback.Source(),
	}
}

func (r *Resolver) timeNow() time.Time {
	if r.TimeNow == nil {
		return time.Now()
	}
	return r.TimeNow()
}

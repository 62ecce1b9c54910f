// Package dataset serves the community-maintained static dataset: a
// stops list and a lines list fetched from a remote location and
// cached for a fixed TTL. The data is stale by design; it supplies
// stop names and plausible-but-synthesized arrivals when the live
// sources fail.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spkg/bom"

	"durak.dev/arrivals/fetch"
)

const (
	DefaultTTL     = 30 * time.Minute
	DefaultTimeout = 10 * time.Second
	DefaultMaxSize = 16 << 20 // 16 MB
)

type Stop struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Line struct {
	Route     string `json:"route"`
	Direction string `json:"direction"`
}

// Snapshot is an immutable view of the dataset. It is replaced
// wholesale on refresh, never mutated, so readers can hold one across
// a concurrent refresh.
type Snapshot struct {
	Stops     []Stop
	Lines     []Line
	FetchedAt time.Time

	nameByCode       map[string]string
	directionByRoute map[string]string
}

// StopName returns the display name for a stop code, or "" if the
// dataset doesn't know the stop.
func (s *Snapshot) StopName(code string) string {
	return s.nameByCode[code]
}

// Direction returns the direction text for a route, or "" if unknown.
func (s *Snapshot) Direction(route string) string {
	return s.directionByRoute[route]
}

// Cache fetches and TTL-caches the dataset. Concurrent refreshes may
// duplicate the fetch pair, but the snapshot pointer is only ever
// swapped whole.
type Cache struct {
	StopsURL string
	LinesURL string
	TTL      time.Duration
	Timeout  time.Duration
	Fetcher  fetch.Fetcher
	TimeNow  func() time.Time
	Logger   *slog.Logger

	mutex    sync.RWMutex
	snapshot *Snapshot
}

func NewCache(stopsURL, linesURL string) *Cache {
	return &Cache{
		StopsURL: stopsURL,
		LinesURL: linesURL,
		TTL:      DefaultTTL,
		Timeout:  DefaultTimeout,
		Fetcher:  fetch.HTTP(),
		TimeNow:  time.Now,
	}
}

// Snapshot returns the current snapshot, fetching the dataset on cold
// start or TTL expiry. A fetch failure is returned to the caller
// rather than masked, so the resolver can continue its chain.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := c.TimeNow()

	c.mutex.RLock()
	snap := c.snapshot
	c.mutex.RUnlock()

	ttl := c.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if snap != nil && now.Before(snap.FetchedAt.Add(ttl)) {
		return snap, nil
	}

	// Refresh without holding the lock. Racing refreshes cost an
	// extra fetch pair, which beats serializing all readers behind
	// the network.
	fresh, err := c.refresh(ctx, now)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	c.snapshot = fresh
	c.mutex.Unlock()

	if c.Logger != nil {
		c.Logger.Info("refreshed static dataset",
			"stops", len(fresh.Stops), "lines", len(fresh.Lines))
	}
	return fresh, nil
}

func (c *Cache) refresh(ctx context.Context, now time.Time) (*Snapshot, error) {
	options := fetch.Options{
		Timeout: c.Timeout,
		MaxSize: DefaultMaxSize,
	}
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}

	stopsBody, err := c.Fetcher.Get(ctx, c.StopsURL, nil, options)
	if err != nil {
		return nil, fmt.Errorf("fetching stops: %w", err)
	}
	linesBody, err := c.Fetcher.Get(ctx, c.LinesURL, nil, options)
	if err != nil {
		return nil, fmt.Errorf("fetching lines: %w", err)
	}

	snap := &Snapshot{FetchedAt: now}

	// The dataset files occasionally ship with a UTF-8 BOM.
	if err := json.NewDecoder(bom.NewReader(bytes.NewReader(stopsBody))).Decode(&snap.Stops); err != nil {
		return nil, fmt.Errorf("decoding stops: %w", err)
	}
	if err := json.NewDecoder(bom.NewReader(bytes.NewReader(linesBody))).Decode(&snap.Lines); err != nil {
		return nil, fmt.Errorf("decoding lines: %w", err)
	}

	snap.nameByCode = make(map[string]string, len(snap.Stops))
	for _, stop := range snap.Stops {
		snap.nameByCode[stop.Code] = stop.Name
	}
	snap.directionByRoute = make(map[string]string, len(snap.Lines))
	for _, line := range snap.Lines {
		if _, seen := snap.directionByRoute[line.Route]; !seen {
			snap.directionByRoute[line.Route] = line.Direction
		}
	}

	return snap, nil
}

// Package mobi queries the mobile-app API, the highest-trust source in
// the fallback chain. The API exposes named query aliases against a
// single POST endpoint rather than REST paths, and its response schema
// differs per alias, so items go through the tolerant field-variant
// mapper in package model.
package mobi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"durak.dev/arrivals/auth"
	"durak.dev/arrivals/model"
)

const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRecords = 5
)

type aliasQuery struct {
	Alias string            `json:"alias"`
	Data  map[string]string `json:"data"`
}

// The known query aliases, in the order they're worth trying. Each is
// independent; a failing alias is skipped, not propagated.
func queriesFor(stopCode string) []aliasQuery {
	return []aliasQuery{
		{
			Alias: "mainGetLine_basic_search",
			Data:  map[string]string{"HATYONETIM.HAT.HAT_KODU": "%" + stopCode + "%"},
		},
		{
			Alias: "GetDurakCekmekoy_json",
			Data:  map[string]string{"DurakKodu": stopCode},
		},
		{
			Alias: "GetStopLines_json",
			Data:  map[string]string{"StopCode": stopCode},
		},
	}
}

type Adapter struct {
	ServiceURL string
	Tokens     *auth.TokenCache
	Timeout    time.Duration
	MaxRecords int
	HTTPClient *http.Client
	TimeNow    func() time.Time
	Logger     *slog.Logger
}

func NewAdapter(serviceURL string, tokens *auth.TokenCache) *Adapter {
	return &Adapter{
		ServiceURL: serviceURL,
		Tokens:     tokens,
		Timeout:    DefaultTimeout,
		MaxRecords: DefaultMaxRecords,
		TimeNow:    time.Now,
	}
}

func (a *Adapter) Source() model.Source {
	return model.SourceMobileAPI
}

// Resolve tries each query alias until one yields a non-empty list,
// then maps its items into records with a deterministic pseudo-ETA.
// An auth failure returns immediately so the resolver can move on.
func (a *Adapter) Resolve(ctx context.Context, stopCode string) (model.Lookup, error) {
	token, err := a.Tokens.Token(ctx)
	if err != nil {
		return model.Lookup{}, fmt.Errorf("getting token: %w", err)
	}

	now := a.TimeNow()

	for _, q := range queriesFor(stopCode) {
		items, err := a.query(ctx, token, q)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Debug("alias failed", "alias", q.Alias, "error", err)
			}
			continue
		}
		if len(items) == 0 {
			continue
		}

		records := make([]model.Record, 0, len(items))
		for _, item := range items {
			rec, ok := model.MapItem(item, now)
			if !ok {
				continue
			}
			// This API doesn't return live ETAs. The pseudo-ETA is
			// synthetic-looking on purpose; the source tag tells
			// callers as much.
			rec.EnsureETA(model.PseudoETA(rec.Line, stopCode, now), now)
			records = append(records, rec)
		}
		if len(records) == 0 {
			continue
		}

		model.SortRecords(records)
		max := a.MaxRecords
		if max <= 0 {
			max = DefaultMaxRecords
		}
		if len(records) > max {
			records = records[:max]
		}

		return model.Lookup{
			StationName: records[0].StationName,
			Records:     records,
		}, nil
	}

	return model.Lookup{}, nil
}

func (a *Adapter) query(ctx context.Context, token string, q aliasQuery) ([]map[string]any, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	timeout := a.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", a.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return items, nil
}

package arrivals

import (
	"log/slog"

	"durak.dev/arrivals/auth"
	"durak.dev/arrivals/config"
	"durak.dev/arrivals/dataset"
	"durak.dev/arrivals/mobi"
	"durak.dev/arrivals/scrape"
)

// Pipeline bundles the fully wired resolver with the caches it owns,
// so callers (the CLI, the chat layer) can reach the dataset cache
// directly for things like listing stops.
type Pipeline struct {
	Resolver *Resolver
	Tokens   *auth.TokenCache
	Dataset  *dataset.Cache
}

// NewPipeline wires the standard three-source chain from
// configuration: authenticated API, then scraping, then static
// dataset, with the synthetic table as unconditional fallback.
func NewPipeline(cfg config.Config, logger *slog.Logger) *Pipeline {
	tokens := auth.NewTokenCache(cfg.Auth.URL, auth.Credentials{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		Scope:        cfg.Auth.Scope,
	})
	if cfg.Auth.TimeoutSeconds > 0 {
		tokens.Timeout = cfg.Auth.Timeout()
	}
	tokens.Logger = logger

	api := mobi.NewAdapter(cfg.Service.URL, tokens)
	if cfg.Service.TimeoutSeconds > 0 {
		api.Timeout = cfg.Service.Timeout()
	}
	if cfg.Service.MaxRecords > 0 {
		api.MaxRecords = cfg.Service.MaxRecords
	}
	api.Logger = logger

	scraper := scrape.NewAdapter(cfg.Scrape.URLTemplate)
	if cfg.Scrape.TimeoutSeconds > 0 {
		scraper.Timeout = cfg.Scrape.Timeout()
	}
	scraper.Logger = logger

	datasetCache := dataset.NewCache(cfg.Dataset.StopsURL, cfg.Dataset.LinesURL)
	if cfg.Dataset.TTLMinutes > 0 {
		datasetCache.TTL = cfg.Dataset.TTL()
	}
	if cfg.Dataset.TimeoutSeconds > 0 {
		datasetCache.Timeout = cfg.Dataset.Timeout()
	}
	datasetCache.Logger = logger

	resolver := NewResolver(api, scraper, dataset.NewAdapter(datasetCache))
	resolver.Logger = logger

	return &Pipeline{
		Resolver: resolver,
		Tokens:   tokens,
		Dataset:  datasetCache,
	}
}

// Package config loads the pipeline configuration from YAML and
// validates it. Every field has a sensible default, so a missing file
// still yields a working (credential-less) configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Auth    AuthConfig    `yaml:"auth"`
	Service ServiceConfig `yaml:"service"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Dataset DatasetConfig `yaml:"dataset"`
}

type AuthConfig struct {
	URL string `yaml:"url" validate:"required,url"`

	// Credentials may be left empty; the authenticated source then
	// fails its exchange and the chain falls through to scraping.
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	Scope          string `yaml:"scope"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"omitempty,min=1"`
}

type ServiceConfig struct {
	URL            string `yaml:"url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"omitempty,min=1"`
	MaxRecords     int    `yaml:"max_records" validate:"omitempty,min=1"`
}

type ScrapeConfig struct {
	// URLTemplate receives the stop code via %s.
	URLTemplate    string `yaml:"url_template" validate:"required,contains=%s"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"omitempty,min=1"`
}

type DatasetConfig struct {
	StopsURL       string `yaml:"stops_url" validate:"required,url"`
	LinesURL       string `yaml:"lines_url" validate:"required,url"`
	TTLMinutes     int    `yaml:"ttl_minutes" validate:"omitempty,min=1"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"omitempty,min=1"`
}

// Default returns the configuration for the public IETT endpoints,
// without credentials.
func Default() Config {
	return Config{
		Auth: AuthConfig{
			URL:            "https://ntcapi.iett.istanbul/oauth2/v2/auth",
			Scope:          "service",
			TimeoutSeconds: 10,
		},
		Service: ServiceConfig{
			URL:            "https://ntcapi.iett.istanbul/service",
			TimeoutSeconds: 15,
			MaxRecords:     5,
		},
		Scrape: ScrapeConfig{
			URLTemplate:    "https://iett.istanbul/StationDetail?dkod=%s",
			TimeoutSeconds: 15,
		},
		Dataset: DatasetConfig{
			StopsURL:       "https://raw.githubusercontent.com/myikit/iett-data/main/stations.json",
			LinesURL:       "https://raw.githubusercontent.com/myikit/iett-data/main/buss.json",
			TTLMinutes:     30,
			TimeoutSeconds: 10,
		},
	}
}

// Load reads a YAML config file over the defaults and validates the
// result. An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c AuthConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c ServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c ScrapeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c DatasetConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c DatasetConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Package config loads the scrape configuration from a YAML file plus the
// OPENSEA_API_KEY environment variable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Collection bounds one collection's scrape. Page ceilings are pointers so
// an omitted field keeps the default of one page while an explicit 0 means
// unbounded.
type Collection struct {
	Slug           string `yaml:"slug"`
	AssetPages     *int   `yaml:"asset_pages"`
	SalesPages     *int   `yaml:"sales_pages"`
	WalletNFTPages *int   `yaml:"wallet_nft_pages"`
	WalletTxPages  *int   `yaml:"wallet_tx_pages"`
	ListingAssets  int    `yaml:"listing_assets"`
}

// Duration wraps time.Duration so YAML values like "10m" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full scrape configuration. APIKey comes from the
// environment, never the file.
type Config struct {
	OutputDir   string       `yaml:"output_dir"`
	RateLimit   int          `yaml:"rate_limit"`
	RedisAddr   string       `yaml:"redis_addr"`
	CacheTTL    Duration     `yaml:"cache_ttl"`
	Collections []Collection `yaml:"collections"`

	APIKey string `yaml:"-"`
}

// Load reads and validates the configuration at path. The API key is taken
// from OPENSEA_API_KEY and is required.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Config{OutputDir: "./results"}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.APIKey = os.Getenv("OPENSEA_API_KEY")
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENSEA_API_KEY is not set")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative (got %d)", c.RateLimit)
	}
	if len(c.Collections) == 0 {
		return fmt.Errorf("no collections configured")
	}
	for i, col := range c.Collections {
		if col.Slug == "" {
			return fmt.Errorf("collection %d has no slug", i)
		}
		for name, ceiling := range map[string]*int{
			"asset_pages":      col.AssetPages,
			"sales_pages":      col.SalesPages,
			"wallet_nft_pages": col.WalletNFTPages,
			"wallet_tx_pages":  col.WalletTxPages,
		} {
			if ceiling != nil && *ceiling < 0 {
				return fmt.Errorf("collection %s: %s must not be negative (got %d)", col.Slug, name, *ceiling)
			}
		}
		if col.ListingAssets < 0 {
			return fmt.Errorf("collection %s: listing_assets must not be negative (got %d)", col.Slug, col.ListingAssets)
		}
	}
	return nil
}

// Ceiling resolves a page-ceiling field: omitted means one page, an
// explicit 0 means unbounded.
func Ceiling(p *int) int {
	if p == nil {
		return 1
	}
	return *p
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("OPENSEA_API_KEY", "test-key")

	path := writeConfig(t, `
output_dir: /tmp/scrapes
rate_limit: 2
redis_addr: localhost:6379
cache_ttl: 10m
collections:
  - slug: some-collection
    asset_pages: 3
    sales_pages: 0
    listing_assets: 5
  - slug: other-collection
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want from the environment", cfg.APIKey)
	}
	if cfg.OutputDir != "/tmp/scrapes" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.RateLimit != 2 {
		t.Errorf("RateLimit = %d, want 2", cfg.RateLimit)
	}
	if time.Duration(cfg.CacheTTL) != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", time.Duration(cfg.CacheTTL))
	}
	if len(cfg.Collections) != 2 {
		t.Fatalf("got %d collections, want 2", len(cfg.Collections))
	}

	first := cfg.Collections[0]
	if Ceiling(first.AssetPages) != 3 {
		t.Errorf("asset_pages ceiling = %d, want 3", Ceiling(first.AssetPages))
	}
	if Ceiling(first.SalesPages) != 0 {
		t.Errorf("explicit 0 sales_pages ceiling = %d, want 0 (unbounded)", Ceiling(first.SalesPages))
	}
	if Ceiling(first.WalletNFTPages) != 1 {
		t.Errorf("omitted wallet_nft_pages ceiling = %d, want default 1", Ceiling(first.WalletNFTPages))
	}
	if first.ListingAssets != 5 {
		t.Errorf("ListingAssets = %d, want 5", first.ListingAssets)
	}

	second := cfg.Collections[1]
	if Ceiling(second.AssetPages) != 1 || second.ListingAssets != 0 {
		t.Errorf("bare collection = %+v, want all defaults", second)
	}
}

func TestLoad_DefaultOutputDir(t *testing.T) {
	t.Setenv("OPENSEA_API_KEY", "test-key")

	path := writeConfig(t, "collections:\n  - slug: some-collection\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "./results" {
		t.Errorf("OutputDir = %q, want ./results", cfg.OutputDir)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENSEA_API_KEY", "")

	path := writeConfig(t, "collections:\n  - slug: some-collection\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "OPENSEA_API_KEY") {
		t.Errorf("Load without an API key = %v, want a missing-key error", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("OPENSEA_API_KEY", "test-key")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no collections",
			content: "output_dir: /tmp\n",
			wantErr: "no collections",
		},
		{
			name:    "missing slug",
			content: "collections:\n  - asset_pages: 1\n",
			wantErr: "no slug",
		},
		{
			name:    "negative ceiling",
			content: "collections:\n  - slug: x\n    sales_pages: -1\n",
			wantErr: "sales_pages must not be negative",
		},
		{
			name:    "negative rate limit",
			content: "rate_limit: -4\ncollections:\n  - slug: x\n",
			wantErr: "rate_limit must not be negative",
		},
		{
			name:    "negative listing assets",
			content: "collections:\n  - slug: x\n    listing_assets: -2\n",
			wantErr: "listing_assets must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.MinPoints)
	assert.Equal(t, []string{
		"https://news.ycombinator.com/news",
		"https://news.ycombinator.com/news?p=2",
	}, cfg.Pagination.Pages)
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("HN_MIN_POINTS", "")
	t.Setenv("HN_LOG_LEVEL", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	t.Setenv("HN_MIN_POINTS", "")
	t.Setenv("HN_LOG_LEVEL", "")

	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	t.Setenv("HN_MIN_POINTS", "")
	t.Setenv("HN_LOG_LEVEL", "")

	path := writeFile(t, "config.yaml", `
min_points: 250
http:
  user_agent: test-agent
  connect_timeout_ms: 1000
  total_timeout_ms: 2000
  max_body_bytes: 1024
pagination:
  strategy: next_link
  pages: ["https://news.ycombinator.com/newest"]
  max_pages: 3
output:
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.MinPoints)
	assert.Equal(t, "test-agent", cfg.HTTP.UserAgent)
	assert.Equal(t, time.Second, cfg.GetConnectTimeout())
	assert.Equal(t, 2*time.Second, cfg.GetTotalTimeout())
	assert.Equal(t, PaginationNextLink, cfg.Pagination.Strategy)
	assert.Equal(t, []string{"https://news.ycombinator.com/newest"}, cfg.Pagination.Pages)
	assert.Equal(t, "json", cfg.Output.Format)
	// untouched sections keep defaults
	assert.Equal(t, "https://news.ycombinator.com/", cfg.BaseURL)
	assert.True(t, cfg.Robots.Enabled)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "config.yaml", "min_pts: 5\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HN_MIN_POINTS", "42")
	t.Setenv("HN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MinPoints)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)

	t.Setenv("HN_MIN_POINTS", "lots")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative min points", func(c *Config) { c.MinPoints = -1 }},
		{"no pages", func(c *Config) { c.Pagination.Pages = nil }},
		{"bad strategy", func(c *Config) { c.Pagination.Strategy = "crawl" }},
		{"next_link without max pages", func(c *Config) {
			c.Pagination.Strategy = PaginationNextLink
			c.Pagination.MaxPages = 0
		}},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad color", func(c *Config) { c.Output.Color = "sometimes" }},
		{"no user agent", func(c *Config) { c.HTTP.UserAgent = "" }},
		{"zero connect timeout", func(c *Config) { c.HTTP.ConnectTimeoutMS = 0 }},
		{"robots without ttl", func(c *Config) { c.Robots.CacheTTLHours = 0 }},
		{"rod without timeout", func(c *Config) {
			c.Rod.Enabled = true
			c.Rod.PageTimeoutS = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSelectorsDefaultAndFile(t *testing.T) {
	cfg := Default()
	sel, err := cfg.Selectors()
	require.NoError(t, err)
	assert.Equal(t, "tr.athing", sel.StoryRow)

	cfg.SelectorsFile = writeFile(t, "selectors.yaml", `
score: "span.points"
next_page_link: ["a.next"]
`)
	sel, err = cfg.Selectors()
	require.NoError(t, err)
	assert.Equal(t, "span.points", sel.Score)
	assert.Equal(t, []string{"a.next"}, sel.NextPageLink)
	assert.Equal(t, ".titleline > a", sel.TitleLink)
}

func TestLoadSelectorsRejectsEmptyRequired(t *testing.T) {
	path := writeFile(t, "selectors.yaml", `story_row: ""`)
	_, err := LoadSelectors(path)
	assert.Error(t, err)

	_, err = LoadSelectors("")
	assert.Error(t, err)
}

func TestShippedConfigFilesAreValid(t *testing.T) {
	t.Setenv("HN_MIN_POINTS", "")
	t.Setenv("HN_LOG_LEVEL", "")

	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"news", "news?p=2"}, cfg.Pagination.Pages)

	sel, err := LoadSelectors(filepath.Join("..", "..", "configs", "selectors.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tr.athing", sel.StoryRow)
}

package config

import (
	"fmt"
	"time"
)

const (
	PaginationList     = "list"
	PaginationNextLink = "next_link"
)

var outputFormats = map[string]bool{"pretty": true, "json": true, "yaml": true, "table": true}

type Config struct {
	BaseURL       string              `yaml:"base_url"`
	MinPoints     int                 `yaml:"min_points"`
	RunTimeoutS   int                 `yaml:"run_timeout_s"`
	HTTP          HttpConfig          `yaml:"http"`
	Robots        RobotsConfig        `yaml:"robots"`
	Rod           RodConfig           `yaml:"rod"`
	Pagination    PaginationConfig    `yaml:"pagination"`
	SelectorsFile string              `yaml:"selectors_file"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type HttpConfig struct {
	UserAgent        string `yaml:"user_agent"`
	ConnectTimeoutMS int    `yaml:"connect_timeout_ms"`
	TotalTimeoutMS   int    `yaml:"total_timeout_ms"`
	AcceptLanguage   string `yaml:"accept_language"`
	MaxBodyBytes     int64  `yaml:"max_body_bytes"`
}

type RobotsConfig struct {
	Enabled       bool `yaml:"enabled"`
	CacheTTLHours int  `yaml:"cache_ttl_hours"`
}

type RodConfig struct {
	Enabled          bool   `yaml:"enabled"`
	ChromePath       string `yaml:"chrome_path"`
	PageTimeoutS     int    `yaml:"page_timeout_s"`
	WaitLoadTimeoutS int    `yaml:"wait_load_timeout_s"`
}

type PaginationConfig struct {
	Strategy string   `yaml:"strategy"`
	Pages    []string `yaml:"pages"`
	MaxPages int      `yaml:"max_pages"`
}

type OutputConfig struct {
	Format        string `yaml:"format"`
	Color         string `yaml:"color"`
	MaxTitleChars int    `yaml:"max_title_chars"`
}

type ObservabilityConfig struct {
	LogPath       string `yaml:"log_path"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
}

// Default returns a configuration that reads the first two Hacker News
// listing pages and keeps stories with 100 points or more.
func Default() *Config {
	return &Config{
		BaseURL:     "https://news.ycombinator.com/",
		MinPoints:   100,
		RunTimeoutS: 60,
		HTTP: HttpConfig{
			UserAgent:        "hn-news-parser/1.0 (+https://github.com/hn-news-parser)",
			ConnectTimeoutMS: 5000,
			TotalTimeoutMS:   15000,
			AcceptLanguage:   "en-US,en;q=0.9",
			MaxBodyBytes:     4 << 20,
		},
		Robots: RobotsConfig{
			Enabled:       true,
			CacheTTLHours: 12,
		},
		Rod: RodConfig{
			PageTimeoutS:     30,
			WaitLoadTimeoutS: 15,
		},
		Pagination: PaginationConfig{
			Strategy: PaginationList,
			Pages: []string{
				"https://news.ycombinator.com/news",
				"https://news.ycombinator.com/news?p=2",
			},
			MaxPages: 2,
		},
		Output: OutputConfig{
			Format:        "pretty",
			Color:         "auto",
			MaxTitleChars: 80,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogMaxSizeMB:  10,
			LogMaxBackups: 3,
			LogMaxAgeDays: 7,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.MinPoints < 0 {
		return fmt.Errorf("min_points must be >= 0")
	}
	if c.RunTimeoutS <= 0 {
		return fmt.Errorf("run_timeout_s must be > 0")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("http.connect_timeout_ms must be > 0")
	}
	if c.HTTP.TotalTimeoutMS <= 0 {
		return fmt.Errorf("http.total_timeout_ms must be > 0")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be > 0")
	}
	if c.Robots.Enabled && c.Robots.CacheTTLHours <= 0 {
		return fmt.Errorf("robots.cache_ttl_hours must be > 0 when robots.enabled is true")
	}
	switch c.Pagination.Strategy {
	case PaginationList:
		if len(c.Pagination.Pages) == 0 {
			return fmt.Errorf("pagination.pages must not be empty")
		}
	case PaginationNextLink:
		if len(c.Pagination.Pages) == 0 {
			return fmt.Errorf("pagination.pages must hold the start page when strategy is 'next_link'")
		}
		if c.Pagination.MaxPages <= 0 {
			return fmt.Errorf("pagination.max_pages must be > 0 when strategy is 'next_link'")
		}
	default:
		return fmt.Errorf("pagination.strategy must be 'list' or 'next_link'")
	}
	if !outputFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be one of pretty, json, yaml, table")
	}
	if c.Output.Color != "auto" && c.Output.Color != "always" && c.Output.Color != "never" {
		return fmt.Errorf("output.color must be 'auto', 'always' or 'never'")
	}
	if c.Output.MaxTitleChars < 0 {
		return fmt.Errorf("output.max_title_chars must be >= 0")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	if c.Rod.Enabled {
		if c.Rod.PageTimeoutS <= 0 {
			return fmt.Errorf("rod.page_timeout_s must be > 0")
		}
		if c.Rod.WaitLoadTimeoutS <= 0 {
			return fmt.Errorf("rod.wait_load_timeout_s must be > 0")
		}
	}
	return nil
}

// Getters
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutMS) * time.Millisecond
}

func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetRobotsCacheTTL() time.Duration {
	return time.Duration(c.Robots.CacheTTLHours) * time.Hour
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) GetRodWaitLoadTimeout() time.Duration {
	return time.Duration(c.Rod.WaitLoadTimeoutS) * time.Second
}

func (c *Config) GetRunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutS) * time.Second
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hn-news-parser/internal/scraper"
)

// LoadSelectors loads selectors from a YAML file. Keys missing from the file
// keep their Hacker News defaults.
func LoadSelectors(filePath string) (*scraper.Selectors, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read selectors file %s: %w", filePath, err)
	}

	selectors := scraper.DefaultSelectors()
	if err := yaml.Unmarshal(data, selectors); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(selectors); err != nil {
		return nil, err
	}

	return selectors, nil
}

// Selectors returns the configured selectors, or the defaults when no
// selectors file is set.
func (c *Config) Selectors() (*scraper.Selectors, error) {
	if c.SelectorsFile == "" {
		return scraper.DefaultSelectors(), nil
	}
	return LoadSelectors(c.SelectorsFile)
}

func validateSelectors(s *scraper.Selectors) error {
	if s.StoryRow == "" {
		return fmt.Errorf("story_row is required")
	}
	if s.TitleLink == "" {
		return fmt.Errorf("title_link is required")
	}
	if s.Score == "" {
		return fmt.Errorf("score is required")
	}
	return nil
}

// Package pipeline composes row extraction, field normalization and
// aggregation into the listing-to-ranking flow.
package pipeline

import (
	"github.com/PuerkitoBio/goquery"

	"hn-news-parser/internal/aggregate"
	"hn-news-parser/internal/model"
	"hn-news-parser/internal/normalize"
	"hn-news-parser/internal/scraper"
)

// PageStats describes what one page contributed and what it dropped.
type PageStats struct {
	scraper.Stats
	RowPairs     int
	MissingScore int
	Stories      int
}

type Pipeline struct {
	scraper    *scraper.Scraper
	normalizer *normalize.Normalizer
}

func New(s *scraper.Scraper, n *normalize.Normalizer) *Pipeline {
	return &Pipeline{scraper: s, normalizer: n}
}

// Page extracts and normalizes every story on one listing page, unfiltered,
// in row order. Malformed rows are skipped and counted in the stats.
func (p *Pipeline) Page(markup string) ([]model.Story, PageStats, error) {
	doc, err := p.scraper.ParseDocument(markup)
	if err != nil {
		return nil, PageStats{}, err
	}
	stories, stats := p.Document(doc)
	return stories, stats, nil
}

// Document is Page for an already parsed document.
func (p *Pipeline) Document(doc *goquery.Document) ([]model.Story, PageStats) {
	var stats PageStats
	var stories []model.Story
	for row := range p.scraper.Rows(doc, &stats.Stats) {
		stats.RowPairs++
		story, ok := p.normalizer.Normalize(row)
		if !ok {
			stats.MissingScore++
			continue
		}
		stories = append(stories, story)
	}
	stats.Stories = len(stories)
	return stories, stats
}

// Run processes pages in order and returns the ranked result set. A page that
// fails to parse contributes no rows.
func (p *Pipeline) Run(pages []string, minPoints int) []model.Story {
	perPage := make([][]model.Story, 0, len(pages))
	for _, markup := range pages {
		stories, _, err := p.Page(markup)
		if err != nil {
			continue
		}
		perPage = append(perPage, stories)
	}
	return p.Rank(perPage, minPoints)
}

// Rank merges per-page stories in page order, keeps those with at least
// minPoints and orders them by points, highest first.
func (p *Pipeline) Rank(perPage [][]model.Story, minPoints int) []model.Story {
	return aggregate.Aggregate(perPage, minPoints)
}

package scraper

import (
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Scraper struct {
	selectors *Selectors
}

func NewScraper(selectors *Selectors) *Scraper {
	if selectors == nil {
		selectors = DefaultSelectors()
	}
	return &Scraper{
		selectors: selectors,
	}
}

// ParseDocument builds a document from listing markup. Empty markup yields
// an empty document, not an error.
func (s *Scraper) ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Rows yields one RawRow per story row that has a title link and a following
// sibling row. The metadata row is anchored on the story row itself, so a
// skipped row never shifts the pairing of the rows after it. A sibling that
// is itself a story row does not count as metadata.
//
// stats may be nil.
func (s *Scraper) Rows(doc *goquery.Document, stats *Stats) iter.Seq[RawRow] {
	return func(yield func(RawRow) bool) {
		if doc == nil {
			return
		}
		doc.Find(s.selectors.StoryRow).EachWithBreak(func(i int, row *goquery.Selection) bool {
			if stats != nil {
				stats.StoryRows++
			}

			title := row.Find(s.selectors.TitleLink).First()
			if title.Length() == 0 {
				if stats != nil {
					stats.MissingTitle++
				}
				return true
			}

			meta := row.Next()
			if meta.Length() == 0 || !meta.Is("tr") || meta.Is(s.selectors.StoryRow) {
				if stats != nil {
					stats.MissingMetaRow++
				}
				return true
			}

			return yield(RawRow{Title: title, Meta: meta, Position: i})
		})
	}
}

// NextPageLink returns the raw href of the "more" link, or "" on the last page.
func (s *Scraper) NextPageLink(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	for _, selector := range s.selectors.NextPageLink {
		href, exists := doc.Find(selector).First().Attr("href")
		if exists && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href)
		}
	}
	return ""
}

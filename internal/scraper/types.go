package scraper

import "github.com/PuerkitoBio/goquery"

// RawRow pairs a story row's title link with the row that follows it.
// It only lives for one extraction pass.
type RawRow struct {
	Title    *goquery.Selection
	Meta     *goquery.Selection
	Position int
}

type Selectors struct {
	StoryRow     string   `yaml:"story_row"`
	TitleLink    string   `yaml:"title_link"`
	Score        string   `yaml:"score"`
	NextPageLink []string `yaml:"next_page_link"`
}

// DefaultSelectors matches the Hacker News listing markup.
func DefaultSelectors() *Selectors {
	return &Selectors{
		StoryRow:     "tr.athing",
		TitleLink:    ".titleline > a",
		Score:        ".score",
		NextPageLink: []string{"a.morelink", "a[rel='next']"},
	}
}

// Stats counts what an extraction pass skipped.
type Stats struct {
	StoryRows      int
	MissingTitle   int
	MissingMetaRow int
}

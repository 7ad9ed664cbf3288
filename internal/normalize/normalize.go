package normalize

import (
	"fmt"
	"net/url"
	"strings"

	"hn-news-parser/internal/model"
	"hn-news-parser/internal/scraper"
)

// DefaultBaseURL is the origin relative story links are resolved against.
const DefaultBaseURL = "https://news.ycombinator.com/"

type Normalizer struct {
	base          *url.URL
	scoreSelector string
}

// NewNormalizer resolves links against baseURL and reads the score from the
// element matching scoreSelector inside the metadata row.
func NewNormalizer(baseURL, scoreSelector string) (*Normalizer, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}
	if scoreSelector == "" {
		scoreSelector = scraper.DefaultSelectors().Score
	}
	return &Normalizer{base: base, scoreSelector: scoreSelector}, nil
}

// Normalize turns a row pair into a Story. ok is false when the metadata row
// has no score element: job postings and promoted entries are not votable.
func (n *Normalizer) Normalize(row scraper.RawRow) (story model.Story, ok bool) {
	if row.Title == nil || row.Meta == nil {
		return model.Story{}, false
	}

	score := row.Meta.Find(n.scoreSelector).First()
	if score.Length() == 0 {
		return model.Story{}, false
	}

	href, _ := row.Title.Attr("href")

	return model.Story{
		Title:  strings.TrimSpace(row.Title.Text()),
		URL:    n.ResolveURL(href),
		Points: ParseScore(score.Text()),
	}, true
}

// ResolveURL makes href absolute against the base origin. Absolute links come
// back unchanged and an empty href stays empty.
func (n *Normalizer) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	return n.base.ResolveReference(ref).String()
}

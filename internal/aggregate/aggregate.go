package aggregate

import (
	"cmp"
	"slices"

	"hn-news-parser/internal/model"
)

// DefaultMinPoints is the inclusion threshold when none is configured.
const DefaultMinPoints = 100

// Aggregate merges per-page stories in page order, keeps those with at least
// minPoints and orders them by points, highest first. Equal scores keep their
// page/row encounter order. A nil or empty page counts as a page with no rows.
func Aggregate(pages [][]model.Story, minPoints int) []model.Story {
	total := 0
	for _, page := range pages {
		total += len(page)
	}

	merged := make([]model.Story, 0, total)
	for _, page := range pages {
		merged = append(merged, page...)
	}

	out := Filter(merged, minPoints)
	SortByPoints(out)
	return out
}

// Filter returns the stories with Points >= minPoints, in input order.
func Filter(stories []model.Story, minPoints int) []model.Story {
	out := make([]model.Story, 0, len(stories))
	for _, s := range stories {
		if s.Points >= minPoints {
			out = append(out, s)
		}
	}
	return out
}

// SortByPoints sorts in place, descending, stable.
func SortByPoints(stories []model.Story) {
	slices.SortStableFunc(stories, func(a, b model.Story) int {
		return cmp.Compare(b.Points, a.Points)
	})
}

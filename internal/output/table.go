package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"hn-news-parser/internal/model"
)

func renderTable(w io.Writer, stories []model.Story, maxTitleChars int) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
	)

	rows := make([][]string, 0, len(stories))
	for i, s := range stories {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Points),
			Truncate(s.Title, maxTitleChars),
			s.URL,
		})
	}

	table.Header([]string{"rank", "points", "title", "url"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Truncate shortens text to at most limit runes, cutting at the last space
// when there is one and appending "…". A limit of 0 disables truncation.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	truncated := string(runes[:limit-1])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		return strings.TrimRight(truncated[:lastSpace], " ") + "…"
	}
	return truncated + "…"
}

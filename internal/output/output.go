// Package output renders a ranked story list for the console.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"hn-news-parser/internal/model"
)

const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatTable  = "table"
)

type Options struct {
	Format        string
	Color         string // auto, always or never
	MaxTitleChars int
}

// Record is the serialized form of a story; URL is nil when absent.
type Record struct {
	Title  string  `json:"title" yaml:"title"`
	URL    *string `json:"url" yaml:"url"`
	Points int     `json:"points" yaml:"points"`
}

func Records(stories []model.Story) []Record {
	out := make([]Record, 0, len(stories))
	for _, s := range stories {
		r := Record{Title: s.Title, Points: s.Points}
		if s.HasURL() {
			u := s.URL
			r.URL = &u
		}
		out = append(out, r)
	}
	return out
}

func Render(w io.Writer, stories []model.Story, opts Options) error {
	switch opts.Format {
	case FormatPretty, "":
		return renderPretty(w, stories, ResolveColors(opts.Color))
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(Records(stories))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Records(stories)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		return renderTable(w, stories, opts.MaxTitleChars)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// ResolveColors decides whether to colorize. "auto" follows NO_COLOR, a dumb
// TERM and whether stdout is a terminal.
func ResolveColors(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

func renderPretty(w io.Writer, stories []model.Story, useColors bool) error {
	title := color.New(color.Bold)
	points := color.New(color.FgGreen)
	link := color.New(color.FgCyan)
	for _, c := range []*color.Color{title, points, link} {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	if len(stories) == 0 {
		_, err := fmt.Fprintln(w, "No stories matched.")
		return err
	}

	for i, s := range stories {
		u := "-"
		if s.HasURL() {
			u = s.URL
		}
		_, err := fmt.Fprintf(w, "[%d] %s\n    %s  %s\n",
			i+1,
			title.Sprint(s.Title),
			points.Sprint(pointsLabel(s.Points)),
			link.Sprint(u),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func pointsLabel(n int) string {
	if n == 1 {
		return "1 point"
	}
	return strconv.Itoa(n) + " points"
}

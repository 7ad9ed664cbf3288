package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"hn-news-parser/internal/checksum"
	"hn-news-parser/internal/config"
	"hn-news-parser/internal/fetcher"
	"hn-news-parser/internal/model"
	"hn-news-parser/internal/normalize"
	"hn-news-parser/internal/observability"
	"hn-news-parser/internal/pipeline"
	"hn-news-parser/internal/scraper"
)

type Orchestrator struct {
	cfg        *config.Config
	logger     *observability.Logger
	fetcher    fetcher.PageFetcher
	scraper    *scraper.Scraper
	normalizer *normalize.Normalizer
	pipeline   *pipeline.Pipeline
	checksum   *checksum.Generator
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	f fetcher.PageFetcher,
) (*Orchestrator, error) {
	selectors, err := cfg.Selectors()
	if err != nil {
		return nil, err
	}
	n, err := normalize.NewNormalizer(cfg.BaseURL, selectors.Score)
	if err != nil {
		return nil, err
	}
	s := scraper.NewScraper(selectors)

	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		fetcher:    f,
		scraper:    s,
		normalizer: n,
		pipeline:   pipeline.New(s, n),
		checksum:   checksum.NewGenerator(),
	}, nil
}

// PageReport records the outcome of one requested page.
type PageReport struct {
	URL   string
	Stats pipeline.PageStats
	Err   error
}

type RunStats struct {
	RequestedPages int
	FailedPages    int
	Extracted      int
	Kept           int
	Checksum       string
	StoppedReason  string
}

type Result struct {
	Stories []model.Story
	Pages   []PageReport
	Stats   RunStats
}

// Run fetches the configured pages in order and ranks their stories. A page
// that cannot be fetched contributes no rows; Run itself only fails when the
// configuration is unusable.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	pages := o.cfg.Pagination.Pages
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages configured")
	}

	maxPages := len(pages)
	if o.cfg.Pagination.Strategy == config.PaginationNextLink {
		maxPages = o.cfg.Pagination.MaxPages
	}

	o.logger.Info("Starting run",
		"strategy", o.cfg.Pagination.Strategy,
		"max_pages", maxPages,
		"min_points", o.cfg.MinPoints,
	)

	result := &Result{}
	perPage := make([][]model.Story, 0, maxPages)
	visited := make(map[string]bool, maxPages)
	currentURL := o.normalizer.ResolveURL(pages[0])

	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if ctx.Err() != nil {
			result.Stats.StoppedReason = fmt.Sprintf("cancelled before page %d: %v", pageNum, ctx.Err())
			o.logger.Warn("Run interrupted", "page", pageNum, "error", ctx.Err().Error())
			break
		}

		if o.cfg.Pagination.Strategy == config.PaginationList {
			currentURL = o.normalizer.ResolveURL(pages[pageNum-1])
		}
		visited[currentURL] = true
		result.Stats.RequestedPages++

		o.logger.Info("Processing page", "page", pageNum, "url", currentURL)

		stories, report, next := o.processPage(ctx, pageNum, currentURL)
		result.Pages = append(result.Pages, report)
		if report.Err != nil {
			result.Stats.FailedPages++
		}
		result.Stats.Extracted += len(stories)
		perPage = append(perPage, stories)

		if o.cfg.Pagination.Strategy != config.PaginationNextLink {
			continue
		}
		if next == "" {
			result.Stats.StoppedReason = fmt.Sprintf("no next link at page %d", pageNum)
			o.logger.Info("No next link found", "page", pageNum)
			break
		}
		if visited[next] {
			result.Stats.StoppedReason = fmt.Sprintf("next link at page %d loops back to %s", pageNum, next)
			o.logger.Warn("Next link already visited", "page", pageNum, "next_url", next)
			break
		}
		currentURL = next
	}

	if result.Stats.StoppedReason == "" {
		result.Stats.StoppedReason = fmt.Sprintf("processed %d pages", result.Stats.RequestedPages)
	}

	result.Stories = o.pipeline.Rank(perPage, o.cfg.MinPoints)
	result.Stats.Kept = len(result.Stories)
	result.Stats.Checksum = o.checksum.ResultSetHash(result.Stories)

	o.logger.Info("Run completed",
		"pages", result.Stats.RequestedPages,
		"failed_pages", result.Stats.FailedPages,
		"extracted", result.Stats.Extracted,
		"kept", result.Stats.Kept,
		"checksum", result.Stats.Checksum,
		"reason", result.Stats.StoppedReason,
	)

	return result, nil
}

// processPage returns the page's stories (unfiltered) and the absolute URL of
// the next listing page, if the markup links one.
func (o *Orchestrator) processPage(ctx context.Context, pageNum int, pageURL string) ([]model.Story, PageReport, string) {
	report := PageReport{URL: pageURL}

	resp, err := o.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		report.Err = err
		fields := []interface{}{"page", pageNum, "url", pageURL, "error", err.Error()}
		if errors.Is(err, fetcher.ErrDisallowed) {
			o.logger.Warn("Page disallowed by robots.txt, treating as empty", fields...)
		} else {
			o.logger.Warn("Fetch failed, treating page as empty", fields...)
		}
		return nil, report, ""
	}

	doc, err := o.scraper.ParseDocument(string(resp.Body))
	if err != nil {
		report.Err = err
		o.logger.Warn("Parse failed, treating page as empty",
			"page", pageNum,
			"url", pageURL,
			"error", err.Error(),
		)
		return nil, report, ""
	}

	stories, stats := o.pipeline.Document(doc)
	report.Stats = stats

	for _, s := range stories {
		o.logger.Debug("Story extracted",
			"page", pageNum,
			"title", s.Title,
			"points", s.Points,
			"hash", o.checksum.GenerateStoryHash(s),
		)
	}

	o.logger.Info("Page analysis",
		"page", pageNum,
		"story_rows", stats.StoryRows,
		"stories", stats.Stories,
	)
	if skipped := stats.MissingTitle + stats.MissingMetaRow + stats.MissingScore; skipped > 0 {
		o.logger.Debug("Rows skipped",
			"page", pageNum,
			"missing_title", stats.MissingTitle,
			"missing_meta_row", stats.MissingMetaRow,
			"missing_score", stats.MissingScore,
		)
	}

	return stories, report, resolveNext(pageURL, o.scraper.NextPageLink(doc))
}

// resolveNext resolves the "more" href against the page it was found on.
func resolveNext(pageURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// Close releases the fetcher if it holds resources (the rod browser).
func (o *Orchestrator) Close() error {
	if c, ok := o.fetcher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

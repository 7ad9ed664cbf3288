package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hn-news-parser/internal/app"
	"hn-news-parser/internal/checksum"
	"hn-news-parser/internal/config"
	"hn-news-parser/internal/fetcher"
	"hn-news-parser/internal/model"
	"hn-news-parser/internal/normalize"
	"hn-news-parser/internal/observability"
	"hn-news-parser/internal/output"
	"hn-news-parser/internal/pipeline"
	"hn-news-parser/internal/scraper"
)

var errChecksumMismatch = errors.New("result checksum mismatch")

type options struct {
	configPath string
	minPoints  int
	pages      []string
	format     string
	logLevel   string
	color      string
	inputs     []string
	checksum   string
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hn-news",
		Short: "List the most upvoted Hacker News stories",
		Long: `hn-news fetches Hacker News listing pages, extracts every story with its
score and prints the ones at or above a minimum score, highest first.

Example usage:
  hn-news                              # first two pages, 100+ points
  hn-news --min-points 300 --format table
  hn-news --page news --page "news?p=2" --page "news?p=3"
  hn-news --config configs/config.yaml --format json
  hn-news --input saved/news.html --input saved/news2.html`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if len(opts.inputs) > 0 {
				return runFiles(cmd.OutOrStdout(), cfg, opts.inputs, opts.checksum)
			}
			return run(cmd.OutOrStdout(), cfg, opts.checksum, nil)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults apply when omitted)")
	flags.IntVarP(&opts.minPoints, "min-points", "m", 100, "minimum score for a story to be listed")
	flags.StringArrayVarP(&opts.pages, "page", "p", nil, "listing page to fetch, absolute or relative to the base URL (repeatable)")
	flags.StringVarP(&opts.format, "format", "f", "pretty", "output format: pretty, json, yaml or table")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.color, "color", "auto", "colorize output: auto, always or never")
	flags.StringArrayVarP(&opts.inputs, "input", "i", nil, "rank a saved listing page instead of fetching (repeatable)")
	flags.StringVar(&opts.checksum, "expect-checksum", "", "fail unless the ranked result set has this checksum")

	return cmd
}

// loadConfig applies explicitly set flags over the file/env configuration.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("min-points") {
		cfg.MinPoints = opts.minPoints
	}
	if flags.Changed("page") {
		cfg.Pagination.Strategy = config.PaginationList
		cfg.Pagination.Pages = opts.pages
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("log-level") {
		cfg.Observability.LogLevel = opts.logLevel
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*observability.Logger, error) {
	return observability.New(observability.Options{
		LogPath:    cfg.Observability.LogPath,
		LogLevel:   cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.LogMaxSizeMB,
		MaxBackups: cfg.Observability.LogMaxBackups,
		MaxAgeDays: cfg.Observability.LogMaxAgeDays,
	})
}

// run wires the fetcher, orchestrator and renderer. pf overrides the
// configured fetcher when non-nil.
func run(w io.Writer, cfg *config.Config, expected string, pf fetcher.PageFetcher) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	if pf == nil {
		if cfg.Rod.Enabled {
			pf = fetcher.NewRodFetcher(cfg, logger)
		} else {
			pf = fetcher.NewFetcher(cfg, logger)
		}
	}

	orchestrator, err := app.NewOrchestrator(cfg, logger, pf)
	if err != nil {
		return err
	}
	defer func() {
		if err := orchestrator.Close(); err != nil {
			logger.Warn("Failed to release fetcher", "error", err.Error())
		}
	}()

	ctx, cancel := app.GracefulShutdown(logger, cfg.GetRunTimeout())
	defer cancel()

	result, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	return finish(w, cfg, result.Stories, expected)
}

// runFiles ranks saved listing pages without any network access. A file
// that cannot be read contributes no rows.
func runFiles(w io.Writer, cfg *config.Config, paths []string, expected string) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	selectors, err := cfg.Selectors()
	if err != nil {
		return err
	}
	n, err := normalize.NewNormalizer(cfg.BaseURL, selectors.Score)
	if err != nil {
		return err
	}
	p := pipeline.New(scraper.NewScraper(selectors), n)

	pages := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read input, treating page as empty", "path", path, "error", err.Error())
			continue
		}
		pages = append(pages, string(data))
	}

	stories := p.Run(pages, cfg.MinPoints)
	logger.Info("Ranked saved pages", "files", len(paths), "read", len(pages), "kept", len(stories))

	return finish(w, cfg, stories, expected)
}

// finish renders stories and, when expected is set, checks the result set
// against it.
func finish(w io.Writer, cfg *config.Config, stories []model.Story, expected string) error {
	err := output.Render(w, stories, output.Options{
		Format:        cfg.Output.Format,
		Color:         cfg.Output.Color,
		MaxTitleChars: cfg.Output.MaxTitleChars,
	})
	if err != nil {
		return err
	}

	if expected == "" {
		return nil
	}
	gen := checksum.NewGenerator()
	if !gen.VerifyResultSetHash(expected, stories) {
		return fmt.Errorf("%w: got %s, want %s", errChecksumMismatch, gen.ResultSetHash(stories), expected)
	}
	return nil
}

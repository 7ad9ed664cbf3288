package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn-news-parser/internal/checksum"
	"hn-news-parser/internal/config"
	"hn-news-parser/internal/fetcher"
	"hn-news-parser/internal/model"
)

type stubFetcher map[string]string

func (s stubFetcher) Fetch(_ context.Context, urlStr string) (*fetcher.FetchResponse, error) {
	return &fetcher.FetchResponse{StatusCode: 200, Body: []byte(s[urlStr]), URL: urlStr}, nil
}

const stubPage = `<table>
<tr class="athing"><td><span class="titleline"><a href="item?id=1">Popular</a></span></td></tr>
<tr><td><span class="score">512 points</span></td></tr>
<tr class="athing"><td><span class="titleline"><a href="https://example.com">Quiet</a></span></td></tr>
<tr><td><span class="score">3 points</span></td></tr>
</table>`

func parseFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	t.Setenv("HN_MIN_POINTS", "")
	t.Setenv("HN_LOG_LEVEL", "")

	opts := &options{}
	cmd := buildRootCmd(opts)
	require.NoError(t, cmd.ParseFlags(args))

	return loadConfig(cmd, opts)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_points: 10\noutput:\n  format: table\n"), 0o600))

	cfg, err := parseFlags(t, "--config", path, "--min-points", "250", "--page", "newest", "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.MinPoints)
	assert.Equal(t, []string{"newest"}, cfg.Pagination.Pages)
	assert.Equal(t, config.PaginationList, cfg.Pagination.Strategy)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestUnsetFlagsKeepConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_points: 10\n"), 0o600))

	cfg, err := parseFlags(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MinPoints)
	assert.Equal(t, "pretty", cfg.Output.Format)
}

func TestInvalidFlagValue(t *testing.T) {
	_, err := parseFlags(t, "--format", "xml")
	assert.Error(t, err)
}

func TestRunRendersJSON(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.LogLevel = "error"
	cfg.Output.Format = "json"
	cfg.Pagination.Pages = []string{"news"}

	var out bytes.Buffer
	err := run(&out, cfg, "", stubFetcher{"https://news.ycombinator.com/news": stubPage})
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Popular", got[0]["title"])
	assert.Equal(t, "https://news.ycombinator.com/item?id=1", got[0]["url"])
	assert.Equal(t, float64(512), got[0]["points"])
}

func TestRunFilesRanksSavedPages(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "news.html")
	require.NoError(t, os.WriteFile(saved, []byte(stubPage), 0o600))

	cfg := config.Default()
	cfg.Observability.LogLevel = "error"
	cfg.Output.Format = "json"

	var out bytes.Buffer
	err := runFiles(&out, cfg, []string{saved, filepath.Join(dir, "missing.html")}, "")
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Popular", got[0]["title"])
}

func TestExpectChecksum(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.LogLevel = "error"
	cfg.Output.Format = "json"
	cfg.Pagination.Pages = []string{"news"}
	pf := stubFetcher{"https://news.ycombinator.com/news": stubPage}

	want := checksum.NewGenerator().ResultSetHash([]model.Story{
		{Title: "Popular", URL: "https://news.ycombinator.com/item?id=1", Points: 512},
	})

	var out bytes.Buffer
	require.NoError(t, run(&out, cfg, want, pf))

	out.Reset()
	err := run(&out, cfg, "deadbeef", pf)
	require.ErrorIs(t, err, errChecksumMismatch)
	assert.Contains(t, out.String(), "Popular")
}

func TestInputFlagParsed(t *testing.T) {
	opts := &options{}
	cmd := buildRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"-i", "a.html", "--input", "b.html", "--expect-checksum", "abc"}))
	assert.Equal(t, []string{"a.html", "b.html"}, opts.inputs)
	assert.Equal(t, "abc", opts.checksum)
}

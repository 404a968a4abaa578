// ABOUTME: Fetches raw text for manifest sources: web scraping and transcript files
// ABOUTME: HTML is reduced to readable text with boilerplate tags removed
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/yashraj10/retention-rag/internal/models"
)

// Fetcher resolves a source stub into its raw text.
type Fetcher interface {
	Fetch(ctx context.Context, src models.Source) (string, error)
}

// HTTPFetcher fetches web pages and reads transcript files from disk.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a sane request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the cleaned text of one source.
func (f *HTTPFetcher) Fetch(ctx context.Context, src models.Source) (string, error) {
	switch src.Kind {
	case models.SourceKindWeb:
		return f.fetchWeb(ctx, src.URI)
	case models.SourceKindTranscript:
		return fetchTranscriptFile(src.URI)
	default:
		return "", fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

func (f *HTTPFetcher) fetchWeb(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	// Some sites refuse requests without a browser UA.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	text, err := ExtractText(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", url, err)
	}
	if text == "" {
		return "", fmt.Errorf("no readable text at %s", url)
	}
	return text, nil
}

func fetchTranscriptFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	text := CleanText(string(data))
	if text == "" {
		return "", fmt.Errorf("transcript %s is empty", path)
	}
	return text, nil
}

// boilerplate tags whose subtrees carry no article text.
var skipTags = map[string]bool{
	"script": true, "style": true, "nav": true,
	"footer": true, "header": true, "aside": true,
	"noscript": true,
}

// ExtractText parses HTML and returns its readable text with boilerplate
// subtrees dropped and whitespace collapsed.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return CleanText(b.String()), nil
}

// CleanText collapses all whitespace runs to single spaces and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

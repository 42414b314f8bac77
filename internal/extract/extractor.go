// Package extract recovers clean article text from source pages.
//
// This is a best-effort heuristic cascade over page structure, not a
// full readability engine: sites in the feed set share a handful of
// body-container conventions, and anything that slips through still has
// to pass the junk filter before it may replace the feed description.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsImporter/internal/ports"
)

const (
	fetchTimeout     = 15 * time.Second
	maxContentLength = 50000
	minContentLength = 100
	minParagraph     = 30

	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	htmlAccept = "text/html,application/xhtml+xml"
)

// bodySelectors lists known article-body container classes in priority
// order. Broad ".content" comes last on purpose.
var bodySelectors = []string{
	".entry-content",
	".article-content",
	".post-content",
	".article-body",
	".story-body",
	".single-content",
	".content",
}

// noiseSelector matches nodes removed before any text extraction.
const noiseSelector = "script, style, iframe, nav, aside, footer, form, noscript"

// Extractor fetches source pages and applies the extraction cascade.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// New wires an HTTP client; the default carries the 15s page timeout.
func New(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Extractor{client: client, logger: logger}
}

// Extract returns cleaned article text, or "" when the page cannot be
// fetched or no candidate survives the junk filter. Failure here is
// recoverable: the caller falls back to the feed description.
func (e *Extractor) Extract(ctx context.Context, pageURL string) string {
	doc, err := e.fetchDocument(ctx, pageURL)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("page fetch failed", "url", pageURL, "error", err)
		}
		return ""
	}
	return ExtractFromDocument(doc)
}

func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", htmlAccept)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// ExtractFromDocument runs the cascade on an already-parsed page:
// known body containers, then <article>, then a page-wide paragraph
// sweep. First candidate that is long enough and not junk wins.
func ExtractFromDocument(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	for _, selector := range bodySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := acceptable(containerText(sel)); text != "" {
			return text
		}
	}

	if article := doc.Find("article").First(); article.Length() > 0 {
		if text := acceptable(containerText(article)); text != "" {
			return text
		}
	}

	return acceptable(paragraphSweep(doc))
}

// containerText prefers the container's paragraphs; a container without
// paragraph markup degrades to its flattened text.
func containerText(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := normalize(p.Text())
		if len([]rune(text)) >= 20 {
			parts = append(parts, text)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}
	return normalize(sel.Text())
}

// paragraphSweep is the last resort: every paragraph on the page above
// the minimum length, as long as there are more than two of them.
func paragraphSweep(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := normalize(p.Text())
		if len([]rune(text)) > minParagraph {
			parts = append(parts, text)
		}
	})
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts, "\n\n")
}

func acceptable(text string) string {
	if len([]rune(text)) < minContentLength || IsJunk(text) {
		return ""
	}
	return capLength(text)
}

func capLength(text string) string {
	runes := []rune(text)
	if len(runes) <= maxContentLength {
		return text
	}
	return string(runes[:maxContentLength])
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Junk patterns: CSS rules, runs of property declarations, and script
// tokens that indicate markup leaked into the extracted text.
var junkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[.#][\w-]+\s*\{[^}]*\}`),
	regexp.MustCompile(`(?:[\w-]+\s*:\s*[^;{}\n]{1,60};\s*){2,}`),
	regexp.MustCompile(`@media[^{]*\{`),
	regexp.MustCompile(`\bwindow\.\w`),
	regexp.MustCompile(`\bdocument\.\w`),
	regexp.MustCompile(`\bfunction\s*\(`),
	regexp.MustCompile(`\baddEventListener\b`),
}

// IsJunk reports whether text looks like stylesheet or script leakage
// rather than prose.
func IsJunk(text string) bool {
	for _, pattern := range junkPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

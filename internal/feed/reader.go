// Package feed turns raw RSS 2.0 / Atom documents into candidate items.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"NewsImporter/internal/classify"
	"NewsImporter/internal/domain"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 500

	userAgent  = "Mozilla/5.0 (compatible; NewsImporter/1.0)"
	feedAccept = "application/rss+xml, application/xml, text/xml, application/atom+xml"
)

// Reader fetches and parses one feed into candidate items.
type Reader struct {
	client     *http.Client
	parser     *gofeed.Parser
	classifier *classify.Classifier
	sanitizer  *bluemonday.Policy
	logger     *slog.Logger
}

// NewReader wires an HTTP client; the default carries a 20s timeout.
func NewReader(client *http.Client, classifier *classify.Classifier, logger *slog.Logger) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Reader{
		client:     client,
		parser:     gofeed.NewParser(),
		classifier: classifier,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger,
	}
}

// Fetch downloads the feed document and parses it. Network and
// document-level failures are returned; defective single items degrade
// silently inside Parse.
func (r *Reader) Fetch(ctx context.Context, source domain.FeedSource) ([]domain.CandidateItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", feedAccept)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed %s returned %s", source.Name, resp.Status)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", source.Name, err)
	}

	return r.toCandidates(parsed, source), nil
}

// Parse converts raw feed bytes without touching the network.
func (r *Reader) Parse(data []byte, source domain.FeedSource) ([]domain.CandidateItem, error) {
	parsed, err := r.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", source.Name, err)
	}
	return r.toCandidates(parsed, source), nil
}

func (r *Reader) toCandidates(parsed *gofeed.Feed, source domain.FeedSource) []domain.CandidateItem {
	items := make([]domain.CandidateItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		title := truncateRunes(DecodeEntities(strings.TrimSpace(item.Title)), maxTitleLength)
		if title == "" {
			continue
		}

		description := r.plainText(item.Description)
		if description == "" {
			description = r.plainText(item.Content)
		}
		description = truncateRunes(description, maxDescriptionLength)

		tags := strings.Join(item.Categories, " ")
		category := source.DefaultCategory
		if r.classifier != nil {
			category = r.classifier.Classify(title, description+" "+tags, source.DefaultCategory)
		}

		items = append(items, domain.CandidateItem{
			Title:       title,
			Link:        strings.TrimSpace(item.Link),
			Description: description,
			PublishedAt: publishedAt(item),
			ImageURL:    itemImageURL(item),
			Source:      source.Name,
			Category:    category,
		})
	}

	if r.logger != nil {
		r.logger.Debug("feed parsed", "feed", source.Name, "items", len(items))
	}
	return items
}

// plainText strips markup from a feed HTML fragment and decodes the
// entities the sanitizer re-escapes.
func (r *Reader) plainText(fragment string) string {
	stripped := r.sanitizer.Sanitize(fragment)
	decoded := DecodeEntities(stripped)
	return strings.Join(strings.Fields(decoded), " ")
}

// DecodeEntities resolves named and numeric HTML entity references.
// Already-decoded text passes through unchanged.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// itemImageURL picks the best-effort image in priority order:
// media:content, enclosure, first inline image reference.
func itemImageURL(item *gofeed.Item) string {
	if u := mediaImageURL(item); u != "" {
		return u
	}

	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if u := firstInlineImage(item.Content); u != "" {
		return u
	}
	return firstInlineImage(item.Description)
}

func mediaImageURL(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, key := range []string{"content", "thumbnail"} {
		for _, e := range media[key] {
			if u := e.Attrs["url"]; u != "" {
				return u
			}
		}
	}
	return ""
}

func firstInlineImage(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return DecodeEntities(strings.TrimSpace(src))
}

func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Now()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

// Package dedupe detects already-published articles by exact title
// lookup and by fuzzy overlap against recently stored titles.
package dedupe

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"NewsImporter/internal/ports"
)

// Options tune the detector. Zero values fall back to defaults that
// match production behavior but carry no contract.
type Options struct {
	SimilarityThreshold float64
	CacheSize           int
	CacheTTL            time.Duration
}

func (o Options) withDefaults() Options {
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = 0.30
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 1000
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	return o
}

// Detector performs the two-stage duplicate check. The title cache is
// the only shared mutable state of the pipeline: it refreshes at most
// once per TTL and writers only append.
type Detector struct {
	store  ports.ContentStore
	opts   Options
	logger *slog.Logger

	mu          sync.Mutex
	titles      []string
	refreshedAt time.Time
}

// NewDetector wires the content store used for exact matches and cache
// refreshes.
func NewDetector(store ports.ContentStore, opts Options, logger *slog.Logger) *Detector {
	return &Detector{
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// IsDuplicate reports whether the title collides with stored content.
// A failing store lookup counts as a duplicate: skipping one article is
// cheaper than publishing it twice.
func (d *Detector) IsDuplicate(ctx context.Context, title string) bool {
	exists, err := d.store.ArticleExists(ctx, title)
	if err != nil {
		d.warn("exact title lookup failed", "error", err)
		return true
	}
	if exists {
		return true
	}

	for _, known := range d.recentTitles(ctx) {
		if Similarity(title, known) >= d.opts.SimilarityThreshold {
			return true
		}
	}
	return false
}

// Remember appends a freshly published title so that later items in the
// same run see it without waiting for a cache refresh.
func (d *Detector) Remember(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.titles = append(d.titles, title)
}

func (d *Detector) recentTitles(ctx context.Context) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if time.Since(d.refreshedAt) > d.opts.CacheTTL {
		titles, err := d.store.RecentTitles(ctx, d.opts.CacheSize)
		if err != nil {
			d.warn("title cache refresh failed", "error", err)
		} else {
			d.titles = titles
			d.refreshedAt = time.Now()
		}
	}

	snapshot := make([]string, len(d.titles))
	copy(snapshot, d.titles)
	return snapshot
}

func (d *Detector) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}

// Similarity measures title overlap as a bag-of-words ratio: shared
// significant words divided by the smaller deduplicated word count.
// Order-independent and symmetric; tolerant of reworded headlines.
func Similarity(a, b string) float64 {
	wordsA := significantWords(a)
	wordsB := significantWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shared := 0
	for word := range wordsA {
		if wordsB[word] {
			shared++
		}
	}

	denom := len(wordsA)
	if len(wordsB) < denom {
		denom = len(wordsB)
	}
	return float64(shared) / float64(denom)
}

// significantWords lowercases, strips punctuation, and keeps distinct
// words longer than three characters.
func significantWords(s string) map[string]bool {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	words := map[string]bool{}
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) > 3 {
			words[word] = true
		}
	}
	return words
}

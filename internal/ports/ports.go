package ports

import (
	"context"
	"time"

	"NewsImporter/internal/domain"
)

// FeedReader fetches a syndication feed and turns it into candidate items.
type FeedReader interface {
	Fetch(ctx context.Context, source domain.FeedSource) ([]domain.CandidateItem, error)
}

// ContentStore is the persistence boundary owned by the content system.
// The pipeline only consumes it; it never manages schema or reads back
// published articles beyond what deduplication needs.
type ContentStore interface {
	InsertArticle(ctx context.Context, article domain.Article) (int64, error)
	ArticleExists(ctx context.Context, title string) (bool, error)
	RecentTitles(ctx context.Context, limit int) ([]string, error)
	CategoriesBySlug(ctx context.Context) (map[string]int64, error)
}

// Extractor recovers clean article text from a source page. Extraction
// failure is recoverable: implementations return "" instead of an error.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) string
}

// ImageUploader re-hosts an externally hosted image on durable storage.
// Returns the permanent URL, or "" on any failure.
type ImageUploader interface {
	UploadFromURL(ctx context.Context, imageURL string) string
}

// ObjectStorage stores raw bytes and returns a permanent public URL.
type ObjectStorage interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

// Rewriter transforms title and body before publication. Implementations
// must be fail-safe and return the input unchanged on any internal error.
type Rewriter interface {
	Rewrite(ctx context.Context, title, body string) (string, string)
}

// Scheduler controls when import runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

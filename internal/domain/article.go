package domain

import "time"

// FeedSource describes one syndication feed to poll. Loaded from
// configuration at startup and immutable during a run.
type FeedSource struct {
	Name            string
	URL             string
	DefaultCategory string
}

// CandidateItem is one feed entry after parsing, before it has passed
// deduplication and validation. Never persisted itself.
type CandidateItem struct {
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
	ImageURL    string
	Source      string
	Category    string
}

// Article is the shape persisted into the content store. The pipeline
// only ever writes fully valid articles: non-empty title, body of at
// least 50 characters and a durably hosted image URL.
type Article struct {
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	ImageURL    string
	Status      string
	AuthorID    int64
	CategoryID  int64
	PublishedAt time.Time
}

// ImportResult aggregates the counters of one import run.
type ImportResult struct {
	TotalFetched      int       `json:"totalFetched"`
	NewArticles       int       `json:"newArticles"`
	DuplicatesSkipped int       `json:"duplicatesSkipped"`
	SkippedNoImage    int       `json:"skippedNoImage"`
	SkippedNoContent  int       `json:"skippedNoContent"`
	Errors            int       `json:"errors"`
	Sources           []string  `json:"sources"`
	Timestamp         time.Time `json:"timestamp"`
}

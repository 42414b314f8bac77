package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"NewsImporter/internal/dedupe"
	"NewsImporter/internal/domain"
	"NewsImporter/internal/ports"
	"NewsImporter/internal/slugify"
	"NewsImporter/internal/validate"
)

const excerptLength = 300

// PipelineDeps wires all driven adapters into the import pipeline.
type PipelineDeps struct {
	Feeds            []domain.FeedSource
	Reader           ports.FeedReader
	Store            ports.ContentStore
	Detector         *dedupe.Detector
	Extractor        ports.Extractor
	Uploader         ports.ImageUploader
	Rewriter         ports.Rewriter
	FallbackCategory string
	AuthorID         int64
	Logger           *slog.Logger
}

// Pipeline implements one full import pass: iterate feeds, run every
// candidate item through classify → dedupe → extract → validate →
// upload → rewrite → validate → persist.
type Pipeline struct {
	feeds            []domain.FeedSource
	reader           ports.FeedReader
	store            ports.ContentStore
	detector         *dedupe.Detector
	extractor        ports.Extractor
	uploader         ports.ImageUploader
	rewriter         ports.Rewriter
	fallbackCategory string
	authorID         int64
	logger           *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	authorID := deps.AuthorID
	if authorID == 0 {
		authorID = 1
	}
	return &Pipeline{
		feeds:            deps.Feeds,
		reader:           deps.Reader,
		store:            deps.Store,
		detector:         deps.Detector,
		extractor:        deps.Extractor,
		uploader:         deps.Uploader,
		rewriter:         deps.Rewriter,
		fallbackCategory: deps.FallbackCategory,
		authorID:         authorID,
		logger:           deps.Logger,
	}
}

// Run executes one import pass. Feed-level and item-level failures are
// counted, never fatal: the worst outcome is a result full of skips.
func (p *Pipeline) Run(ctx context.Context) domain.ImportResult {
	result := domain.ImportResult{
		Sources:   []string{},
		Timestamp: time.Now(),
	}

	categories, err := p.store.CategoriesBySlug(ctx)
	if err != nil || len(categories) == 0 {
		p.error("no categories available, aborting run", "error", err)
		return result
	}

	for _, source := range p.feeds {
		items, err := p.reader.Fetch(ctx, source)
		if err != nil {
			p.warn("feed skipped", "feed", source.Name, "error", err)
			result.Errors++
			continue
		}

		result.TotalFetched += len(items)
		result.Sources = append(result.Sources, source.Name)
		p.info("feed parsed", "feed", source.Name, "items", len(items))

		for _, item := range items {
			p.processItem(ctx, item, categories, &result)
		}
	}

	p.info("import run complete",
		"new", result.NewArticles,
		"duplicates", result.DuplicatesSkipped,
		"no_image", result.SkippedNoImage,
		"no_content", result.SkippedNoContent,
		"errors", result.Errors,
	)
	return result
}

// processItem runs the per-item pipeline. A panic inside one item is
// contained here so that the rest of the feed and run continue.
func (p *Pipeline) processItem(ctx context.Context, item domain.CandidateItem, categories map[string]int64, result *domain.ImportResult) {
	defer func() {
		if r := recover(); r != nil {
			p.error("item processing panicked", "title", item.Title, "panic", r)
			result.Errors++
		}
	}()

	if p.detector.IsDuplicate(ctx, item.Title) {
		result.DuplicatesSkipped++
		return
	}

	if strings.TrimSpace(item.ImageURL) == "" {
		result.SkippedNoImage++
		return
	}

	body := item.Description
	if item.Link != "" {
		if extracted := p.extractor.Extract(ctx, item.Link); len(extracted) > len(body) {
			body = extracted
		}
	}

	if res := validate.Check(item.Title, body, item.ImageURL); !res.Valid {
		p.countInvalid(res.Reason, result)
		return
	}

	hostedImage := p.uploader.UploadFromURL(ctx, item.ImageURL)
	if hostedImage == "" {
		result.SkippedNoImage++
		return
	}

	title, finalBody := item.Title, body
	if p.rewriter != nil {
		title, finalBody = p.rewriter.Rewrite(ctx, title, finalBody)
	}

	// Rewriting mutates title and body, so the contract is checked again.
	if res := validate.Check(title, finalBody, hostedImage); !res.Valid {
		p.countInvalid(res.Reason, result)
		return
	}

	categoryID := categories[item.Category]
	if categoryID == 0 {
		categoryID = categories[p.fallbackCategory]
	}

	article := domain.Article{
		Title:       title,
		Slug:        slugify.Unique(title),
		Excerpt:     makeExcerpt(item.Description),
		Body:        finalBody,
		ImageURL:    hostedImage,
		Status:      "published",
		AuthorID:    p.authorID,
		CategoryID:  categoryID,
		PublishedAt: item.PublishedAt,
	}

	if _, err := p.store.InsertArticle(ctx, article); err != nil {
		p.error("insert failed", "title", title, "error", err)
		result.Errors++
		return
	}

	p.detector.Remember(title)
	result.NewArticles++
}

func (p *Pipeline) countInvalid(reason validate.Reason, result *domain.ImportResult) {
	if reason == validate.ReasonMissingImage {
		result.SkippedNoImage++
		return
	}
	result.SkippedNoContent++
}

func makeExcerpt(description string) string {
	runes := []rune(description)
	if len(runes) <= excerptLength {
		return description
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "…"
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}

// Package storage implements the content-store boundary on Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsImporter/internal/domain"
	"NewsImporter/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists pipeline output into the articles schema.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.ContentStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertArticle writes the article and its category link in one
// transaction and returns the new article id.
func (s *PostgresStore) InsertArticle(ctx context.Context, article domain.Article) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := psql.Insert("articles").
		Columns("title", "slug", "content", "excerpt", "featured_image", "status", "author_id", "published_at").
		Values(article.Title, article.Slug, article.Body, article.Excerpt, article.ImageURL, article.Status, article.AuthorID, article.PublishedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var articleID int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&articleID); err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}

	if article.CategoryID > 0 {
		query, args, err = psql.Insert("article_categories").
			Columns("article_id", "category_id").
			Values(articleID, article.CategoryID).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build category link: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("link category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return articleID, nil
}

// ArticleExists reports whether a stored article already carries this
// title (exact, case-sensitive LIKE without wildcards).
func (s *PostgresStore) ArticleExists(ctx context.Context, title string) (bool, error) {
	query, args, err := psql.Select("id").
		From("articles").
		Where(sq.Like{"title": title}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query title: %w", err)
	}
	return true, nil
}

// RecentTitles returns the most recently created titles, newest first.
func (s *PostgresStore) RecentTitles(ctx context.Context, limit int) ([]string, error) {
	query, args, err := psql.Select("title").
		From("articles").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return titles, nil
}

// CategoriesBySlug loads the category slug → id mapping.
func (s *PostgresStore) CategoriesBySlug(ctx context.Context) (map[string]int64, error) {
	query, args, err := psql.Select("slug", "id").From("categories").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var (
			slug string
			id   int64
		)
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

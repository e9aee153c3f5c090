package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"medialog/internal/core"
	"medialog/internal/features/blog/models"
)

var ErrPostNotFound = errors.New("post not found")
var ErrDuplicateSlug = errors.New("a post with this slug already exists")

// PostService handles blog post persistence. Management operations are
// scoped to the owning user; only the public published listings cross users.
type PostService struct {
	db     *core.Database
	logger *core.Logger
}

// NewPostService creates a new post service
func NewPostService(db *core.Database, logger *core.Logger) *PostService {
	return &PostService{
		db:     db,
		logger: logger,
	}
}

// GenerateSlug derives a URL slug from a title: lowercase, alphanumerics
// only, spaces collapsed to single hyphens.
func GenerateSlug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

const postColumns = "id, user_id, title, slug, content, excerpt, published, published_at, created_at, updated_at"

// ListPublishedPosts returns published posts from every author, newest first
func (s *PostService) ListPublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE published = 1
		ORDER BY created_at DESC
	`
	return s.queryPosts(ctx, query)
}

// ListAllPosts returns a user's posts including drafts, newest first
func (s *PostService) ListAllPosts(ctx context.Context, userID int) ([]models.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	return s.queryPosts(ctx, query, userID)
}

func (s *PostService) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.BlogPost, error) {
	rows, err := s.db.QueryWithTimeout(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// GetPostBySlug returns a published post by its slug
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE slug = ? AND published = 1
	`

	post, err := scanPost(s.db.QueryRowWithTimeout(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// GetPost returns a user's post by ID regardless of publication state
func (s *PostService) GetPost(ctx context.Context, userID, id int) (*models.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE user_id = ? AND id = ?
	`

	post, err := scanPost(s.db.QueryRowWithTimeout(ctx, query, userID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// CreatePost inserts a new post for a user with a slug derived from its title
func (s *PostService) CreatePost(ctx context.Context, userID int, input *models.PostInput) (*models.BlogPost, error) {
	now := time.Now()
	slug := GenerateSlug(input.Title)

	var publishedAt interface{}
	if input.Published {
		publishedAt = now
	}

	query := `
		INSERT INTO blog_posts (user_id, title, slug, content, excerpt, published, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	var id int
	err := s.db.QueryRowWithTimeout(ctx, query,
		userID, input.Title, slug, input.Content, nullableString(input.Excerpt),
		input.Published, publishedAt, now, now,
	).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Created blog post", "id", id, "slug", slug, "user_id", userID)
	return s.GetPost(ctx, userID, id)
}

// UpdatePost replaces a user's post fields, regenerating the slug from the
// title. A post published for the first time gets its publication timestamp
// set.
func (s *PostService) UpdatePost(ctx context.Context, userID, id int, input *models.PostInput) (*models.BlogPost, error) {
	current, err := s.GetPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	publishedAt := current.PublishedAt
	if input.Published && publishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}

	query := `
		UPDATE blog_posts
		SET title = ?, slug = ?, content = ?, excerpt = ?, published = ?, published_at = ?, updated_at = ?
		WHERE user_id = ? AND id = ?
	`
	_, err = s.db.ExecWithTimeout(ctx, query,
		input.Title, GenerateSlug(input.Title), input.Content, nullableString(input.Excerpt),
		input.Published, publishedAt, time.Now(), userID, id,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Info("Updated blog post", "id", id)
	return s.GetPost(ctx, userID, id)
}

// DeletePost removes a user's post
func (s *PostService) DeletePost(ctx context.Context, userID, id int) error {
	result, err := s.db.ExecWithTimeout(ctx, "DELETE FROM blog_posts WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}

	s.logger.Info("Deleted blog post", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (models.BlogPost, error) {
	var post models.BlogPost
	var excerpt sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&excerpt,
		&post.Published,
		&publishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return post, err
	}

	if excerpt.Valid {
		post.Excerpt = &excerpt.String
	}
	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}

	return post, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medialog/internal/core"
	"medialog/internal/features/media/models"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryService handles media category persistence
type CategoryService struct {
	db     *core.Database
	logger *core.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(db *core.Database, logger *core.Logger) *CategoryService {
	return &CategoryService{
		db:     db,
		logger: logger,
	}
}

// ListCategories retrieves all categories for a user in creation order, each
// with its derived entry count.
func (s *CategoryService) ListCategories(ctx context.Context, userID int) ([]models.Category, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.color, c.created_at,
		       COUNT(e.id) AS entry_count
		FROM media_categories c
		LEFT JOIN media_entries e ON e.category_id = c.id
		WHERE c.user_id = ?
		GROUP BY c.id
		ORDER BY c.created_at
	`

	rows, err := s.db.QueryWithTimeout(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.Color,
			&category.CreatedAt,
			&category.EntryCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// CreateCategory inserts a new category
func (s *CategoryService) CreateCategory(ctx context.Context, userID int, input *models.CategoryInput) (*models.Category, error) {
	category := &models.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: time.Now(),
	}
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}

	query := `
		INSERT INTO media_categories (id, user_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecWithTimeout(ctx, query,
		category.ID, category.UserID, category.Name, category.Color, category.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Created category", "id", category.ID, "name", category.Name)
	return category, nil
}

// UpdateCategory updates a category's name and color
func (s *CategoryService) UpdateCategory(ctx context.Context, userID int, id string, input *models.CategoryInput) (*models.Category, error) {
	query := `
		UPDATE media_categories
		SET name = ?, color = ?
		WHERE user_id = ? AND id = ?
	`
	result, err := s.db.ExecWithTimeout(ctx, query, input.Name, input.Color, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrCategoryNotFound
	}

	return s.getCategory(ctx, userID, id)
}

// DeleteCategory removes a category. Entries referencing it keep existing
// with their category cleared.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID int, id string) error {
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE media_entries SET category_id = NULL WHERE user_id = ? AND category_id = ?", userID, id)
		if err != nil {
			return fmt.Errorf("failed to detach entries: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM media_categories WHERE user_id = ? AND id = ?", userID, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check delete result: %w", err)
		}
		if affected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deleted category", "id", id)
	return nil
}

func (s *CategoryService) getCategory(ctx context.Context, userID int, id string) (*models.Category, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.color, c.created_at,
		       COUNT(e.id) AS entry_count
		FROM media_categories c
		LEFT JOIN media_entries e ON e.category_id = c.id
		WHERE c.user_id = ? AND c.id = ?
		GROUP BY c.id
	`

	var category models.Category
	err := s.db.QueryRowWithTimeout(ctx, query, userID, id).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Color,
		&category.CreatedAt,
		&category.EntryCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

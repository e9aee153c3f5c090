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

var ErrEntryNotFound = errors.New("entry not found")

// EntryService handles media entry persistence
type EntryService struct {
	db     *core.Database
	logger *core.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(db *core.Database, logger *core.Logger) *EntryService {
	return &EntryService{
		db:     db,
		logger: logger,
	}
}

// ListEntries retrieves all entries for a user, newest first, with category
// details and ordered tags attached.
func (s *EntryService) ListEntries(ctx context.Context, userID int) ([]models.MediaEntry, error) {
	query := `
		SELECT e.id, e.user_id, e.title, e.description, e.url, e.rating,
		       e.category_id, e.created_at, e.updated_at, c.name, c.color
		FROM media_entries e
		LEFT JOIN media_categories c ON e.category_id = c.id
		WHERE e.user_id = ?
		ORDER BY e.created_at DESC
	`

	rows, err := s.db.QueryWithTimeout(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []models.MediaEntry{}
	index := make(map[string]int)

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		index[entry.ID] = len(entries)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	if err := s.attachTags(ctx, userID, entries, index); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetEntry retrieves a single entry by ID
func (s *EntryService) GetEntry(ctx context.Context, userID int, id string) (*models.MediaEntry, error) {
	query := `
		SELECT e.id, e.user_id, e.title, e.description, e.url, e.rating,
		       e.category_id, e.created_at, e.updated_at, c.name, c.color
		FROM media_entries e
		LEFT JOIN media_categories c ON e.category_id = c.id
		WHERE e.user_id = ? AND e.id = ?
	`

	row := s.db.QueryRowWithTimeout(ctx, query, userID, id)
	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	entry.Tags, err = s.entryTags(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// CreateEntry inserts a new entry with its tags
func (s *EntryService) CreateEntry(ctx context.Context, userID int, input *models.EntryInput) (*models.MediaEntry, error) {
	id := uuid.New().String()
	now := time.Now()

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO media_entries (id, user_id, title, description, url, rating, category_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			id,
			userID,
			input.Title,
			nullableString(input.Description),
			nullableString(input.URL),
			input.NormalizedRating(),
			nullableString(input.CategoryID),
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}

		return replaceTags(ctx, tx, id, input.Tags)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created media entry", "id", id, "title", input.Title)
	return s.GetEntry(ctx, userID, id)
}

// UpdateEntry replaces an entry's fields and tags
func (s *EntryService) UpdateEntry(ctx context.Context, userID int, id string, input *models.EntryInput) (*models.MediaEntry, error) {
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE media_entries
			SET title = ?, description = ?, url = ?, rating = ?, category_id = ?, updated_at = ?
			WHERE user_id = ? AND id = ?
		`
		result, err := tx.ExecContext(ctx, query,
			input.Title,
			nullableString(input.Description),
			nullableString(input.URL),
			input.NormalizedRating(),
			nullableString(input.CategoryID),
			time.Now(),
			userID,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return ErrEntryNotFound
		}

		return replaceTags(ctx, tx, id, input.Tags)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated media entry", "id", id)
	return s.GetEntry(ctx, userID, id)
}

// DeleteEntry removes an entry and its tags
func (s *EntryService) DeleteEntry(ctx context.Context, userID int, id string) error {
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM media_entries WHERE user_id = ? AND id = ?", userID, id)
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check delete result: %w", err)
		}
		if affected == 0 {
			return ErrEntryNotFound
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM media_entry_tags WHERE entry_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete entry tags: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deleted media entry", "id", id)
	return nil
}

// attachTags loads tags for all listed entries in one query, preserving the
// stored tag order per entry.
func (s *EntryService) attachTags(ctx context.Context, userID int, entries []models.MediaEntry, index map[string]int) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		SELECT t.entry_id, t.tag
		FROM media_entry_tags t
		JOIN media_entries e ON t.entry_id = e.id
		WHERE e.user_id = ?
		ORDER BY t.entry_id, t.position
	`

	rows, err := s.db.QueryWithTimeout(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to query entry tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, tag string
		if err := rows.Scan(&entryID, &tag); err != nil {
			return fmt.Errorf("failed to scan entry tag: %w", err)
		}
		if i, ok := index[entryID]; ok {
			entries[i].Tags = append(entries[i].Tags, tag)
		}
	}
	return rows.Err()
}

func (s *EntryService) entryTags(ctx context.Context, entryID string) ([]string, error) {
	rows, err := s.db.QueryWithTimeout(ctx,
		"SELECT tag FROM media_entry_tags WHERE entry_id = ? ORDER BY position", entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// replaceTags rewrites an entry's tag list, keeping the first occurrence of
// any repeated tag so the input never trips the (entry_id, tag) key.
func replaceTags(ctx context.Context, tx *sql.Tx, entryID string, tags []string) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM media_entry_tags WHERE entry_id = ?", entryID)
	if err != nil {
		return fmt.Errorf("failed to clear entry tags: %w", err)
	}

	seen := make(map[string]bool, len(tags))
	position := 0
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true

		_, err = tx.ExecContext(ctx,
			"INSERT INTO media_entry_tags (entry_id, tag, position) VALUES (?, ?, ?)",
			entryID, tag, position)
		if err != nil {
			return fmt.Errorf("failed to insert entry tag: %w", err)
		}
		position++
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.MediaEntry, error) {
	var entry models.MediaEntry
	var description, url, categoryID, categoryName, categoryColor sql.NullString
	var rating sql.NullInt64

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&description,
		&url,
		&rating,
		&categoryID,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&categoryName,
		&categoryColor,
	)
	if err != nil {
		return entry, err
	}

	if description.Valid {
		entry.Description = &description.String
	}
	if url.Valid {
		entry.URL = &url.String
	}
	if rating.Valid {
		r := int(rating.Int64)
		entry.Rating = &r
	}
	if categoryID.Valid {
		entry.CategoryID = &categoryID.String
	}
	if categoryName.Valid {
		entry.CategoryName = &categoryName.String
	}
	if categoryColor.Valid {
		entry.CategoryColor = &categoryColor.String
	}

	return entry, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

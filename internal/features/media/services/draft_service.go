package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medialog/internal/core"
	"medialog/internal/features/media/models"
)

// DraftStore is the key-value port drafts persist through. Implementations
// must treat drafts as disposable; a failed save never blocks entry editing.
type DraftStore interface {
	Get(ctx context.Context, userID int, key string) ([]byte, time.Time, error)
	Put(ctx context.Context, userID int, key string, value []byte, savedAt time.Time) error
	Delete(ctx context.Context, userID int, key string) error
}

// DraftService autosaves unsubmitted entry forms
type DraftService struct {
	store  DraftStore
	logger *core.Logger
}

// NewDraftService creates a new draft service
func NewDraftService(store DraftStore, logger *core.Logger) *DraftService {
	return &DraftService{
		store:  store,
		logger: logger,
	}
}

// SaveDraft persists the form state under the given key
func (s *DraftService) SaveDraft(ctx context.Context, userID int, key string, form *models.EntryInput) (*models.Draft, error) {
	data, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	savedAt := time.Now()
	if err := s.store.Put(ctx, userID, key, data, savedAt); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return &models.Draft{Key: key, Form: *form, SavedAt: savedAt}, nil
}

// GetDraft loads the draft saved under the given key. A draft that no longer
// decodes is discarded and reported as absent.
func (s *DraftService) GetDraft(ctx context.Context, userID int, key string) (*models.Draft, error) {
	data, savedAt, err := s.store.Get(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var form models.EntryInput
	if err := json.Unmarshal(data, &form); err != nil {
		s.logger.Warn("Discarding unreadable draft", "user_id", userID, "key", key, "error", err)
		if delErr := s.store.Delete(ctx, userID, key); delErr != nil {
			s.logger.Error("Failed to discard draft", "user_id", userID, "key", key, "error", delErr)
		}
		return nil, nil
	}

	return &models.Draft{Key: key, Form: form, SavedAt: savedAt}, nil
}

// ClearDraft removes the draft saved under the given key
func (s *DraftService) ClearDraft(ctx context.Context, userID int, key string) error {
	return s.store.Delete(ctx, userID, key)
}

// SQLiteDraftStore persists drafts in the media_drafts table
type SQLiteDraftStore struct {
	db *core.Database
}

// NewSQLiteDraftStore creates a draft store backed by the database
func NewSQLiteDraftStore(db *core.Database) *SQLiteDraftStore {
	return &SQLiteDraftStore{db: db}
}

func (s *SQLiteDraftStore) Get(ctx context.Context, userID int, key string) ([]byte, time.Time, error) {
	var data []byte
	var savedAt time.Time
	err := s.db.QueryRowWithTimeout(ctx,
		"SELECT content, saved_at FROM media_drafts WHERE user_id = ? AND draft_key = ?",
		userID, key,
	).Scan(&data, &savedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get draft: %w", err)
	}
	return data, savedAt, nil
}

func (s *SQLiteDraftStore) Put(ctx context.Context, userID int, key string, value []byte, savedAt time.Time) error {
	query := `
		INSERT INTO media_drafts (user_id, draft_key, content, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, draft_key) DO UPDATE SET content = excluded.content, saved_at = excluded.saved_at
	`
	_, err := s.db.ExecWithTimeout(ctx, query, userID, key, value, savedAt)
	if err != nil {
		return fmt.Errorf("failed to put draft: %w", err)
	}
	return nil
}

func (s *SQLiteDraftStore) Delete(ctx context.Context, userID int, key string) error {
	_, err := s.db.ExecWithTimeout(ctx,
		"DELETE FROM media_drafts WHERE user_id = ? AND draft_key = ?", userID, key)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

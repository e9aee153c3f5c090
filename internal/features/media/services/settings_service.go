package services

import (
	"context"
	"database/sql"
	"fmt"

	"medialog/internal/core"
	"medialog/internal/features/media/models"
)

// SettingsService handles per-user feed preferences
type SettingsService struct {
	db               *core.Database
	logger           *core.Logger
	defaultFrequency int
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *core.Database, logger *core.Logger, defaultFrequency int) *SettingsService {
	return &SettingsService{
		db:               db,
		logger:           logger,
		defaultFrequency: defaultFrequency,
	}
}

// GetSettings returns the user's settings, falling back to configured
// defaults when nothing has been saved yet.
func (s *SettingsService) GetSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	settings := &models.UserSettings{
		UserID:           userID,
		ArchiveFrequency: s.defaultFrequency,
	}

	err := s.db.QueryRowWithTimeout(ctx,
		"SELECT archive_frequency FROM media_user_settings WHERE user_id = ?", userID,
	).Scan(&settings.ArchiveFrequency)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

// UpdateSettings upserts the user's settings
func (s *SettingsService) UpdateSettings(ctx context.Context, userID int, input *models.SettingsInput) (*models.UserSettings, error) {
	query := `
		INSERT INTO media_user_settings (user_id, archive_frequency)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET archive_frequency = excluded.archive_frequency
	`
	_, err := s.db.ExecWithTimeout(ctx, query, userID, input.ArchiveFrequency)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Info("Updated settings", "user_id", userID, "archive_frequency", input.ArchiveFrequency)
	return &models.UserSettings{UserID: userID, ArchiveFrequency: input.ArchiveFrequency}, nil
}

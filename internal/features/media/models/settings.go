package models

// UserSettings holds per-user feed preferences
type UserSettings struct {
	UserID int `json:"user_id"`
	// ArchiveFrequency is the number of recent feed entries between archive
	// insertions. Zero disables interleaving.
	ArchiveFrequency int `json:"archive_frequency"`
}

// SettingsInput represents a settings update
type SettingsInput struct {
	ArchiveFrequency int `json:"archive_frequency" validate:"gte=0,lte=100"`
}

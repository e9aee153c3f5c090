package migrations

import "medialog/internal/core"

// Migration002CreateMediaTables creates the media entry, category, settings
// and draft tables
var Migration002CreateMediaTables = core.Migration{
	Version:     2,
	Name:        "create_media_tables",
	Description: "Create media entries, categories, tags, user settings and drafts",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS media_categories (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS media_entries (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			url TEXT,
			rating INTEGER CHECK (rating BETWEEN 1 AND 5),
			category_id TEXT REFERENCES media_categories(id) ON DELETE SET NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS media_entry_tags (
			entry_id TEXT NOT NULL REFERENCES media_entries(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (entry_id, tag)
		);

		CREATE TABLE IF NOT EXISTS media_user_settings (
			user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			archive_frequency INTEGER NOT NULL DEFAULT 3
		);

		CREATE TABLE IF NOT EXISTS media_drafts (
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			draft_key TEXT NOT NULL,
			content BLOB NOT NULL,
			saved_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, draft_key)
		);

		CREATE INDEX IF NOT EXISTS idx_media_entries_user_created ON media_entries(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_media_entries_category ON media_entries(category_id);
		CREATE INDEX IF NOT EXISTS idx_media_entry_tags_tag ON media_entry_tags(tag);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_media_entry_tags_tag;
		DROP INDEX IF EXISTS idx_media_entries_category;
		DROP INDEX IF EXISTS idx_media_entries_user_created;
		DROP TABLE IF EXISTS media_drafts;
		DROP TABLE IF EXISTS media_user_settings;
		DROP TABLE IF EXISTS media_entry_tags;
		DROP TABLE IF EXISTS media_entries;
		DROP TABLE IF EXISTS media_categories;
	`,
}

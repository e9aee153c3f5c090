package models

// FeedItem is a media entry annotated for display in the feed. IsArchive is
// computed during feed assembly and never persisted.
type FeedItem struct {
	MediaEntry
	IsArchive bool `json:"is_archive"`
}

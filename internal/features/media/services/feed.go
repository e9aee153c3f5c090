package services

import (
	"math/rand"
	"sort"
	"time"

	"medialog/internal/features/media/models"
)

// ArchiveAge is how old an entry must be before it counts as archive
// material for feed interleaving.
const ArchiveAge = 30 * 24 * time.Hour

// PageSize is the number of feed items revealed per load
const PageSize = 20

// FeedService assembles the interleaved feed from the filtered entry list
type FeedService struct {
	rng *rand.Rand
}

func NewFeedService(rng *rand.Rand) *FeedService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FeedService{rng: rng}
}

// AssembleFeed sorts entries newest first and, when frequency is positive,
// inserts a randomly chosen archive entry after every frequency-th recent
// entry. Entries older than thirty days form the archive pool; picks are
// random with replacement, but the total number of insertions never exceeds
// the pool size. Leftover archive entries are not appended to the tail.
func (s *FeedService) AssembleFeed(entries []models.MediaEntry, frequency int, now time.Time) []models.FeedItem {
	sorted := make([]models.MediaEntry, len(entries))
	copy(sorted, entries)
	sortEntriesByCreatedDesc(sorted)

	cutoff := now.Add(-ArchiveAge)
	recent := make([]models.MediaEntry, 0, len(sorted))
	archive := make([]models.MediaEntry, 0)
	for _, entry := range sorted {
		if entry.CreatedAt.After(cutoff) {
			recent = append(recent, entry)
		} else {
			archive = append(archive, entry)
		}
	}

	if frequency <= 0 || len(archive) == 0 {
		feed := make([]models.FeedItem, 0, len(sorted))
		for _, entry := range sorted {
			feed = append(feed, models.FeedItem{MediaEntry: entry, IsArchive: !entry.CreatedAt.After(cutoff)})
		}
		return feed
	}

	feed := make([]models.FeedItem, 0, len(recent)+len(archive))
	inserted := 0
	for i, entry := range recent {
		feed = append(feed, models.FeedItem{MediaEntry: entry})
		if (i+1)%frequency == 0 && inserted < len(archive) {
			pick := archive[s.rng.Intn(len(archive))]
			feed = append(feed, models.FeedItem{MediaEntry: pick, IsArchive: true})
			inserted++
		}
	}

	return feed
}

// Window tracks how much of the assembled feed is visible
type Window struct {
	Size int
}

// NewWindow returns the initial window over a fresh feed
func NewWindow() Window {
	return Window{Size: PageSize}
}

// LoadMore grows the window by one page
func (w Window) LoadMore() Window {
	return Window{Size: w.Size + PageSize}
}

// Slice returns the visible prefix of the feed and whether more remains
func (w Window) Slice(feed []models.FeedItem) ([]models.FeedItem, bool) {
	if w.Size >= len(feed) {
		return feed, false
	}
	return feed[:w.Size], true
}

func sortEntriesByCreatedDesc(entries []models.MediaEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

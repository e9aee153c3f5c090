package services

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"medialog/internal/features/media/models"
)

func feedFixture(now time.Time, recentCount, archiveCount int) []models.MediaEntry {
	entries := []models.MediaEntry{}
	for i := 0; i < recentCount; i++ {
		entries = append(entries, testEntry(
			fmt.Sprintf("recent-%d", i),
			fmt.Sprintf("Recent %d", i),
			withCreatedAt(now.Add(-time.Duration(i+1)*time.Hour)),
		))
	}
	for i := 0; i < archiveCount; i++ {
		entries = append(entries, testEntry(
			fmt.Sprintf("archive-%d", i),
			fmt.Sprintf("Archive %d", i),
			withCreatedAt(now.AddDate(0, 0, -40).Add(-time.Duration(i)*time.Hour)),
		))
	}
	return entries
}

func TestFeedRecentEntriesKeepNewestFirstOrder(t *testing.T) {
	now := time.Now()
	feed := NewFeedService(rand.New(rand.NewSource(1)))

	entries := feedFixture(now, 10, 5)
	items := feed.AssembleFeed(entries, 3, now)

	var lastRecent *models.FeedItem
	for i := range items {
		if items[i].IsArchive {
			continue
		}
		if lastRecent != nil && items[i].CreatedAt.After(lastRecent.CreatedAt) {
			t.Errorf("Recent entries out of order at %s", items[i].ID)
		}
		lastRecent = &items[i]
	}
}

func TestFeedInsertsArchiveAfterEveryNthRecent(t *testing.T) {
	now := time.Now()
	feed := NewFeedService(rand.New(rand.NewSource(1)))

	entries := feedFixture(now, 9, 5)
	items := feed.AssembleFeed(entries, 3, now)

	// 9 recent entries with frequency 3 produce 3 archive insertions
	if len(items) != 12 {
		t.Fatalf("Expected 12 feed items, got %d", len(items))
	}

	recentSeen := 0
	for i, item := range items {
		if item.IsArchive {
			if recentSeen%3 != 0 || recentSeen == 0 {
				t.Errorf("Archive item at position %d after %d recent entries", i, recentSeen)
			}
		} else {
			recentSeen++
		}
	}
}

func TestFeedInsertionsCappedByArchivePool(t *testing.T) {
	now := time.Now()
	feed := NewFeedService(rand.New(rand.NewSource(1)))

	entries := feedFixture(now, 20, 2)
	items := feed.AssembleFeed(entries, 3, now)

	archiveCount := 0
	for _, item := range items {
		if item.IsArchive {
			archiveCount++
		}
	}
	if archiveCount != 2 {
		t.Errorf("Expected archive insertions capped at pool size 2, got %d", archiveCount)
	}
}

func TestFeedZeroFrequencyDisablesInterleaving(t *testing.T) {
	now := time.Now()
	feed := NewFeedService(rand.New(rand.NewSource(1)))

	entries := feedFixture(now, 5, 5)
	items := feed.AssembleFeed(entries, 0, now)

	if len(items) != 10 {
		t.Fatalf("Expected all entries in plain order, got %d items", len(items))
	}
	// No insertions: order is strictly newest first
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Errorf("Feed out of order at position %d", i)
		}
	}
}

func TestFeedWithoutArchivePoolHasNoInsertions(t *testing.T) {
	now := time.Now()
	feed := NewFeedService(rand.New(rand.NewSource(1)))

	entries := feedFixture(now, 6, 0)
	items := feed.AssembleFeed(entries, 2, now)

	if len(items) != 6 {
		t.Fatalf("Expected 6 items, got %d", len(items))
	}
	for _, item := range items {
		if item.IsArchive {
			t.Errorf("Unexpected archive item %s", item.ID)
		}
	}
}

func TestThirtyDayBoundary(t *testing.T) {
	now := time.Now()
	feed := NewFeedService(rand.New(rand.NewSource(1)))

	exactly30 := testEntry("boundary", "Boundary", withCreatedAt(now.Add(-ArchiveAge)))
	recent := testEntry("recent", "Recent", withCreatedAt(now.Add(-time.Hour)))

	items := feed.AssembleFeed([]models.MediaEntry{exactly30, recent}, 0, now)
	for _, item := range items {
		if item.ID == "boundary" && !item.IsArchive {
			t.Error("Entry exactly thirty days old should be archive")
		}
		if item.ID == "recent" && item.IsArchive {
			t.Error("Recent entry should not be archive")
		}
	}
}

func TestWindowGrowsByPageSize(t *testing.T) {
	window := NewWindow()
	if window.Size != PageSize {
		t.Errorf("Expected initial window of %d, got %d", PageSize, window.Size)
	}

	window = window.LoadMore()
	if window.Size != 2*PageSize {
		t.Errorf("Expected window of %d after load more, got %d", 2*PageSize, window.Size)
	}
}

func TestWindowSlice(t *testing.T) {
	feed := make([]models.FeedItem, 30)

	window := NewWindow()
	visible, hasMore := window.Slice(feed)
	if len(visible) != PageSize || !hasMore {
		t.Errorf("Expected %d visible items with more remaining, got %d (hasMore=%v)", PageSize, len(visible), hasMore)
	}

	visible, hasMore = window.LoadMore().Slice(feed)
	if len(visible) != 30 || hasMore {
		t.Errorf("Expected whole feed visible with nothing remaining, got %d (hasMore=%v)", len(visible), hasMore)
	}
}

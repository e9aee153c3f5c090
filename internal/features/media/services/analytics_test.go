package services

import (
	"testing"
	"time"

	"medialog/internal/features/media/models"
)

func TestAnalyticsEmptyCollection(t *testing.T) {
	analytics := NewAnalyticsService()

	snapshot := analytics.Aggregate(nil, nil, time.Now())

	if snapshot.TotalEntries != 0 {
		t.Errorf("Expected 0 total entries, got %d", snapshot.TotalEntries)
	}
	if snapshot.AverageRating != 0 {
		t.Errorf("Expected average rating 0 for empty collection, got %f", snapshot.AverageRating)
	}
	if snapshot.MostUsedCategory != "None" {
		t.Errorf("Expected most used category 'None', got %q", snapshot.MostUsedCategory)
	}
	if snapshot.StreakDays != 0 {
		t.Errorf("Expected streak 0, got %d", snapshot.StreakDays)
	}
	if len(snapshot.MonthlyActivity) != MonthlyWindow {
		t.Errorf("Expected %d monthly buckets, got %d", MonthlyWindow, len(snapshot.MonthlyActivity))
	}
}

func TestAverageRatingIgnoresUnrated(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Now()

	entries := []models.MediaEntry{
		testEntry("1", "A", withRating(5), withCreatedAt(now)),
		testEntry("2", "B", withRating(3), withCreatedAt(now)),
		testEntry("3", "C", withCreatedAt(now)),
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if snapshot.AverageRating != 4.0 {
		t.Errorf("Expected average 4.0 over rated entries only, got %f", snapshot.AverageRating)
	}
}

func TestThisMonthCount(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.Local)

	entries := []models.MediaEntry{
		testEntry("1", "This month", withCreatedAt(time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local))),
		testEntry("2", "Also this month", withCreatedAt(time.Date(2026, 9, 14, 0, 0, 0, 0, time.Local))),
		testEntry("3", "Last month", withCreatedAt(time.Date(2026, 8, 31, 23, 59, 0, 0, time.Local))),
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if snapshot.ThisMonthEntries != 2 {
		t.Errorf("Expected 2 entries this month, got %d", snapshot.ThisMonthEntries)
	}
}

func TestMostUsedCategoryTieBreaksOnFirstEncountered(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Now()

	categories := []models.Category{
		{ID: "cat-a", Name: "Books"},
		{ID: "cat-b", Name: "Films"},
	}
	entries := []models.MediaEntry{
		testEntry("1", "A", withCategory("cat-b"), withCreatedAt(now)),
		testEntry("2", "B", withCategory("cat-a"), withCreatedAt(now)),
	}

	snapshot := analytics.Aggregate(entries, categories, now)
	if snapshot.MostUsedCategory != "Films" {
		t.Errorf("Expected tie to resolve to first encountered category, got %q", snapshot.MostUsedCategory)
	}
}

func TestEntriesByCategoryExcludesEmptyCategories(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Now()

	categories := []models.Category{
		{ID: "cat-a", Name: "Books", Color: "#111111"},
		{ID: "cat-b", Name: "Films", Color: "#222222"},
	}
	entries := []models.MediaEntry{
		testEntry("1", "A", withCategory("cat-a"), withCreatedAt(now)),
		testEntry("2", "B", withCreatedAt(now)),
	}

	snapshot := analytics.Aggregate(entries, categories, now)
	if len(snapshot.EntriesByCategory) != 1 {
		t.Fatalf("Expected only categories with entries, got %v", snapshot.EntriesByCategory)
	}
	got := snapshot.EntriesByCategory[0]
	if got.Name != "Books" || got.Count != 1 || got.Color != "#111111" {
		t.Errorf("Unexpected category breakdown: %v", got)
	}
}

func TestRatingDistributionCoversAllRatings(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Now()

	entries := []models.MediaEntry{
		testEntry("1", "A", withRating(5), withCreatedAt(now)),
		testEntry("2", "B", withRating(5), withCreatedAt(now)),
		testEntry("3", "C", withRating(2), withCreatedAt(now)),
		testEntry("4", "D", withCreatedAt(now)),
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if len(snapshot.RatingDistribution) != 5 {
		t.Fatalf("Expected 5 rating buckets, got %d", len(snapshot.RatingDistribution))
	}

	total := 0
	for _, bucket := range snapshot.RatingDistribution {
		total += bucket.Count
	}
	// Distribution sums to the rated entry count
	if total != 3 {
		t.Errorf("Expected distribution total 3, got %d", total)
	}
	if snapshot.RatingDistribution[4].Count != 2 {
		t.Errorf("Expected 2 five-star entries, got %d", snapshot.RatingDistribution[4].Count)
	}
}

func TestTopTagsLimitAndStableOrder(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Now()

	entries := []models.MediaEntry{
		testEntry("1", "A", withTags("common", "first-tie"), withCreatedAt(now)),
		testEntry("2", "B", withTags("common", "second-tie"), withCreatedAt(now)),
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if len(snapshot.TopTags) != 3 {
		t.Fatalf("Expected 3 tags, got %d", len(snapshot.TopTags))
	}
	if snapshot.TopTags[0].Tag != "common" || snapshot.TopTags[0].Count != 2 {
		t.Errorf("Expected 'common' first with count 2, got %v", snapshot.TopTags[0])
	}
	// Equal counts keep first-encounter order
	if snapshot.TopTags[1].Tag != "first-tie" || snapshot.TopTags[2].Tag != "second-tie" {
		t.Errorf("Expected stable tie order, got %v", snapshot.TopTags)
	}
}

func TestRecentActivityCappedAtTen(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Now()

	entries := []models.MediaEntry{}
	for i := 0; i < 15; i++ {
		entries = append(entries, testEntry(
			string(rune('a'+i)), "Entry",
			withCreatedAt(now.Add(-time.Duration(i)*time.Hour)),
		))
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if len(snapshot.RecentActivity) != RecentActivityLimit {
		t.Fatalf("Expected %d recent entries, got %d", RecentActivityLimit, len(snapshot.RecentActivity))
	}
	if snapshot.RecentActivity[0].ID != "a" {
		t.Errorf("Expected newest entry first, got %s", snapshot.RecentActivity[0].ID)
	}
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Date(2026, 9, 10, 18, 0, 0, 0, time.Local)

	entries := []models.MediaEntry{
		testEntry("1", "Today", withCreatedAt(now.Add(-2*time.Hour))),
		testEntry("2", "Yesterday", withCreatedAt(now.AddDate(0, 0, -1))),
		testEntry("3", "Also yesterday", withCreatedAt(now.AddDate(0, 0, -1).Add(-3*time.Hour))),
		testEntry("4", "Two days ago", withCreatedAt(now.AddDate(0, 0, -2))),
		testEntry("5", "Gap", withCreatedAt(now.AddDate(0, 0, -5))),
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if snapshot.StreakDays != 3 {
		t.Errorf("Expected streak of 3 days, got %d", snapshot.StreakDays)
	}
}

func TestStreakAnchoredTodayOrYesterday(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Date(2026, 9, 10, 18, 0, 0, 0, time.Local)

	// Streak broken: most recent entry is three days old
	entries := []models.MediaEntry{
		testEntry("1", "Old", withCreatedAt(now.AddDate(0, 0, -3))),
		testEntry("2", "Older", withCreatedAt(now.AddDate(0, 0, -4))),
	}
	snapshot := analytics.Aggregate(entries, nil, now)
	if snapshot.StreakDays != 0 {
		t.Errorf("Expected stale streak to be 0, got %d", snapshot.StreakDays)
	}

	// A yesterday-anchored streak still counts
	entries = []models.MediaEntry{
		testEntry("1", "Yesterday", withCreatedAt(now.AddDate(0, 0, -1))),
		testEntry("2", "Day before", withCreatedAt(now.AddDate(0, 0, -2))),
	}
	snapshot = analytics.Aggregate(entries, nil, now)
	if snapshot.StreakDays != 2 {
		t.Errorf("Expected yesterday-anchored streak of 2, got %d", snapshot.StreakDays)
	}
}

func TestMonthlyActivityLabelsAndCounts(t *testing.T) {
	analytics := NewAnalyticsService()
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.Local)

	entries := []models.MediaEntry{
		testEntry("1", "Sep", withCreatedAt(time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local))),
		testEntry("2", "Jul", withCreatedAt(time.Date(2026, 7, 20, 0, 0, 0, 0, time.Local))),
		testEntry("3", "Too old", withCreatedAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local))),
	}

	snapshot := analytics.Aggregate(entries, nil, now)
	if len(snapshot.MonthlyActivity) != 6 {
		t.Fatalf("Expected 6 months, got %d", len(snapshot.MonthlyActivity))
	}
	if snapshot.MonthlyActivity[0].Month != "Apr 26" {
		t.Errorf("Expected oldest bucket 'Apr 26', got %q", snapshot.MonthlyActivity[0].Month)
	}
	if snapshot.MonthlyActivity[5].Month != "Sep 26" {
		t.Errorf("Expected newest bucket 'Sep 26', got %q", snapshot.MonthlyActivity[5].Month)
	}
	if snapshot.MonthlyActivity[5].Entries != 1 {
		t.Errorf("Expected 1 entry in September, got %d", snapshot.MonthlyActivity[5].Entries)
	}
	if snapshot.MonthlyActivity[3].Entries != 1 {
		t.Errorf("Expected 1 entry in July, got %d", snapshot.MonthlyActivity[3].Entries)
	}
}

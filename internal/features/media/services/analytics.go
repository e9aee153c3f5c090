package services

import (
	"sort"
	"time"

	"medialog/internal/features/media/models"
)

// MonthlyWindow is how many trailing calendar months the activity chart covers
const MonthlyWindow = 6

// TopTagLimit caps the tag leaderboard
const TopTagLimit = 10

// RecentActivityLimit caps the recent activity list
const RecentActivityLimit = 10

// AnalyticsService computes the derived statistics snapshot. Everything is
// recomputed from the full collections on each call; nothing is cached or
// persisted.
type AnalyticsService struct{}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Aggregate builds the analytics snapshot for the given entries and
// categories as of now.
func (s *AnalyticsService) Aggregate(entries []models.MediaEntry, categories []models.Category, now time.Time) models.Analytics {
	analytics := models.Analytics{
		TotalEntries:       len(entries),
		ThisMonthEntries:   s.countThisMonth(entries, now),
		AverageRating:      s.averageRating(entries),
		EntriesByCategory:  s.entriesByCategory(entries, categories),
		MonthlyActivity:    s.monthlyActivity(entries, now),
		RatingDistribution: s.ratingDistribution(entries),
		TopTags:            s.topTags(entries),
		RecentActivity:     s.recentActivity(entries),
		StreakDays:         s.streakDays(entries, now),
	}
	analytics.MostUsedCategory = s.mostUsedCategory(analytics.EntriesByCategory)
	return analytics
}

func (s *AnalyticsService) countThisMonth(entries []models.MediaEntry, now time.Time) int {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count := 0
	for _, entry := range entries {
		if !entry.CreatedAt.Before(monthStart) {
			count++
		}
	}
	return count
}

func (s *AnalyticsService) averageRating(entries []models.MediaEntry) float64 {
	sum, rated := 0, 0
	for _, entry := range entries {
		if entry.Rating != nil {
			sum += *entry.Rating
			rated++
		}
	}
	if rated == 0 {
		return 0
	}
	return float64(sum) / float64(rated)
}

// entriesByCategory counts entries per referenced category. Only categories
// with at least one entry appear, in the order they are first encountered
// while walking the entries.
func (s *AnalyticsService) entriesByCategory(entries []models.MediaEntry, categories []models.Category) []models.CategoryCount {
	lookup := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		lookup[cat.ID] = cat
	}

	counts := make([]models.CategoryCount, 0)
	index := make(map[string]int)
	for _, entry := range entries {
		if entry.CategoryID == nil {
			continue
		}
		cat, ok := lookup[*entry.CategoryID]
		if !ok {
			continue
		}
		i, seen := index[cat.ID]
		if !seen {
			i = len(counts)
			index[cat.ID] = i
			counts = append(counts, models.CategoryCount{Name: cat.Name, Color: cat.Color})
		}
		counts[i].Count++
	}
	return counts
}

func (s *AnalyticsService) mostUsedCategory(counts []models.CategoryCount) string {
	best := "None"
	bestCount := 0
	for _, c := range counts {
		if c.Count > bestCount {
			best = c.Name
			bestCount = c.Count
		}
	}
	return best
}

func (s *AnalyticsService) monthlyActivity(entries []models.MediaEntry, now time.Time) []models.MonthActivity {
	activity := make([]models.MonthActivity, 0, MonthlyWindow)
	for i := MonthlyWindow - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		nextMonth := monthStart.AddDate(0, 1, 0)
		count := 0
		for _, entry := range entries {
			if !entry.CreatedAt.Before(monthStart) && entry.CreatedAt.Before(nextMonth) {
				count++
			}
		}
		activity = append(activity, models.MonthActivity{
			Month:   monthStart.Format("Jan 06"),
			Entries: count,
		})
	}
	return activity
}

func (s *AnalyticsService) ratingDistribution(entries []models.MediaEntry) []models.RatingCount {
	dist := make([]models.RatingCount, 0, models.MaxRating)
	for rating := models.MinRating; rating <= models.MaxRating; rating++ {
		count := 0
		for _, entry := range entries {
			if entry.Rating != nil && *entry.Rating == rating {
				count++
			}
		}
		dist = append(dist, models.RatingCount{Rating: rating, Count: count})
	}
	return dist
}

// topTags returns the ten most used tags. Sorting is stable over first
// encounter order so equally used tags keep a deterministic ranking.
func (s *AnalyticsService) topTags(entries []models.MediaEntry) []models.TagCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	tags := make([]models.TagCount, 0, len(order))
	for _, tag := range order {
		tags = append(tags, models.TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})

	if len(tags) > TopTagLimit {
		tags = tags[:TopTagLimit]
	}
	return tags
}

func (s *AnalyticsService) recentActivity(entries []models.MediaEntry) []models.MediaEntry {
	sorted := make([]models.MediaEntry, len(entries))
	copy(sorted, entries)
	sortEntriesByCreatedDesc(sorted)
	if len(sorted) > RecentActivityLimit {
		sorted = sorted[:RecentActivityLimit]
	}
	return sorted
}

// streakDays counts consecutive local calendar days with at least one entry,
// walking backwards from the most recent entry day. The streak only counts
// when that day is today or yesterday.
func (s *AnalyticsService) streakDays(entries []models.MediaEntry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool)
	days := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		day := localDay(entry.CreatedAt)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := localDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			streak++
		} else {
			break
		}
	}
	return streak
}

func localDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

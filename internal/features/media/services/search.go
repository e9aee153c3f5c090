package services

import (
	"sort"
	"strings"

	"medialog/internal/features/media/models"
)

// SearchService filters the in-memory entry collection. All matching is
// case-insensitive substring matching over the already loaded entries, so
// filter changes never hit the database.
type SearchService struct{}

func NewSearchService() *SearchService {
	return &SearchService{}
}

// FilterEntries returns the entries matching every active filter family.
// Families combine with AND; within the category family selections combine
// with OR, while every selected tag must be present.
func (s *SearchService) FilterEntries(entries []models.MediaEntry, filters models.SearchFilters) []models.MediaEntry {
	out := make([]models.MediaEntry, 0, len(entries))
	for _, entry := range entries {
		if s.matches(entry, filters) {
			out = append(out, entry)
		}
	}
	return out
}

func (s *SearchService) matches(entry models.MediaEntry, filters models.SearchFilters) bool {
	if q := strings.TrimSpace(filters.Query); q != "" {
		needle := strings.ToLower(q)
		if !strings.Contains(strings.ToLower(entry.Title), needle) &&
			!containsFold(entry.Description, needle) &&
			!containsFold(entry.URL, needle) &&
			!anyTagContains(entry.Tags, needle) {
			return false
		}
	}

	if len(filters.Categories) > 0 {
		if entry.CategoryID == nil || !containsString(filters.Categories, *entry.CategoryID) {
			return false
		}
	}

	// Unrated entries pass the rating filter untouched
	if entry.Rating != nil {
		if *entry.Rating < filters.MinRating || *entry.Rating > filters.MaxRating {
			return false
		}
	}

	if from, ok := filters.FromTime(); ok && entry.CreatedAt.Before(from) {
		return false
	}
	if to, ok := filters.ToTime(); ok && entry.CreatedAt.After(to) {
		return false
	}

	for _, tag := range filters.Tags {
		if !containsString(entry.Tags, tag) {
			return false
		}
	}

	return true
}

// SuggestionLimit caps the number of search suggestions returned
const SuggestionLimit = 5

// MinSuggestionQueryLen is the shortest query that produces suggestions
const MinSuggestionQueryLen = 2

// Suggestions returns up to SuggestionLimit distinct titles and tags
// containing the query, titles first. Queries shorter than two characters
// yield nothing.
func (s *SearchService) Suggestions(entries []models.MediaEntry, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinSuggestionQueryLen {
		return []string{}
	}

	seen := make(map[string]bool)
	suggestions := make([]string, 0, SuggestionLimit)

	add := func(v string) bool {
		if strings.Contains(strings.ToLower(v), q) && !seen[v] {
			seen[v] = true
			suggestions = append(suggestions, v)
		}
		return len(suggestions) >= SuggestionLimit
	}

	for _, entry := range entries {
		if add(entry.Title) {
			return suggestions
		}
	}
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			if add(tag) {
				return suggestions
			}
		}
	}

	return suggestions
}

// AvailableTags returns the distinct tags across all entries, sorted
func (s *SearchService) AvailableTags(entries []models.MediaEntry) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func containsFold(s *string, needle string) bool {
	if s == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*s), needle)
}

func anyTagContains(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

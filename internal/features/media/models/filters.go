package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Rating bounds for the filter range
const (
	MinRating = 1
	MaxRating = 5
)

// SearchFilters represents the ephemeral client-side filter state. The zero
// state (DefaultFilters) matches every entry.
type SearchFilters struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories"`
	MinRating  int      `json:"min_rating"`
	MaxRating  int      `json:"max_rating"`
	DateFrom   string   `json:"date_from"`
	DateTo     string   `json:"date_to"`
	Tags       []string `json:"tags"`
}

// DefaultFilters returns the identity filter state
func DefaultFilters() SearchFilters {
	return SearchFilters{
		MinRating: MinRating,
		MaxRating: MaxRating,
	}
}

// ParseFilters restores filter state from URL query parameters. Missing or
// malformed fields fall back to their defaults.
func ParseFilters(values url.Values) SearchFilters {
	filters := DefaultFilters()

	filters.Query = values.Get("q")
	filters.Categories = splitList(values.Get("categories"))
	filters.Tags = splitList(values.Get("tags"))
	filters.DateFrom = values.Get("dateFrom")
	filters.DateTo = values.Get("dateTo")

	if v, err := strconv.Atoi(values.Get("minRating")); err == nil && v != 0 {
		filters.MinRating = v
	}
	if v, err := strconv.Atoi(values.Get("maxRating")); err == nil && v != 0 {
		filters.MaxRating = v
	}

	return filters
}

// Values serializes the filter state back to URL query parameters, omitting
// any field equal to its default so filtered views stay shareable without
// noise.
func (f SearchFilters) Values() url.Values {
	params := url.Values{}

	if f.Query != "" {
		params.Set("q", f.Query)
	}
	if len(f.Categories) > 0 {
		params.Set("categories", strings.Join(f.Categories, ","))
	}
	if f.MinRating != MinRating {
		params.Set("minRating", strconv.Itoa(f.MinRating))
	}
	if f.MaxRating != MaxRating {
		params.Set("maxRating", strconv.Itoa(f.MaxRating))
	}
	if f.DateFrom != "" {
		params.Set("dateFrom", f.DateFrom)
	}
	if f.DateTo != "" {
		params.Set("dateTo", f.DateTo)
	}
	if len(f.Tags) > 0 {
		params.Set("tags", strings.Join(f.Tags, ","))
	}

	return params
}

// HasActiveFilters reports whether any field differs from its default
func (f SearchFilters) HasActiveFilters() bool {
	return f.Query != "" ||
		len(f.Categories) > 0 ||
		f.MinRating != MinRating ||
		f.MaxRating != MaxRating ||
		f.DateFrom != "" ||
		f.DateTo != "" ||
		len(f.Tags) > 0
}

// FromTime returns the inclusive lower creation-time bound (start of day)
func (f SearchFilters) FromTime() (time.Time, bool) {
	if f.DateFrom == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", f.DateFrom, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ToTime returns the inclusive upper creation-time bound (end of day)
func (f SearchFilters) ToTime() (time.Time, bool) {
	if f.DateTo == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", f.DateTo, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(23*time.Hour + 59*time.Minute + 59*time.Second), true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

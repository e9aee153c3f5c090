package models

import (
	"net/url"
	"testing"
)

func TestDefaultFiltersHaveNoActiveFilters(t *testing.T) {
	filters := DefaultFilters()
	if filters.HasActiveFilters() {
		t.Error("Expected default filters to be inactive")
	}
	if len(filters.Values()) != 0 {
		t.Errorf("Expected no URL parameters for defaults, got %v", filters.Values())
	}
}

func TestFiltersURLRoundTrip(t *testing.T) {
	filters := SearchFilters{
		Query:      "dune",
		Categories: []string{"cat-a", "cat-b"},
		MinRating:  3,
		MaxRating:  5,
		DateFrom:   "2026-01-01",
		DateTo:     "2026-06-30",
		Tags:       []string{"sci-fi"},
	}

	restored := ParseFilters(filters.Values())

	if restored.Query != filters.Query {
		t.Errorf("Query mismatch: got %q", restored.Query)
	}
	if len(restored.Categories) != 2 || restored.Categories[0] != "cat-a" {
		t.Errorf("Categories mismatch: got %v", restored.Categories)
	}
	if restored.MinRating != 3 || restored.MaxRating != 5 {
		t.Errorf("Rating bounds mismatch: got %d-%d", restored.MinRating, restored.MaxRating)
	}
	if restored.DateFrom != filters.DateFrom || restored.DateTo != filters.DateTo {
		t.Errorf("Date bounds mismatch: got %q-%q", restored.DateFrom, restored.DateTo)
	}
	if len(restored.Tags) != 1 || restored.Tags[0] != "sci-fi" {
		t.Errorf("Tags mismatch: got %v", restored.Tags)
	}
}

func TestValuesOmitDefaults(t *testing.T) {
	filters := DefaultFilters()
	filters.Query = "dune"

	params := filters.Values()
	if params.Get("q") != "dune" {
		t.Errorf("Expected q parameter, got %v", params)
	}
	if params.Has("minRating") || params.Has("maxRating") {
		t.Errorf("Expected default rating bounds omitted, got %v", params)
	}
}

func TestParseFiltersIgnoresMalformedValues(t *testing.T) {
	values := url.Values{}
	values.Set("minRating", "banana")
	values.Set("maxRating", "")

	filters := ParseFilters(values)
	if filters.MinRating != MinRating || filters.MaxRating != MaxRating {
		t.Errorf("Expected defaults for malformed ratings, got %d-%d", filters.MinRating, filters.MaxRating)
	}
}

func TestToTimeCoversWholeDay(t *testing.T) {
	filters := DefaultFilters()
	filters.DateTo = "2026-03-10"

	to, ok := filters.ToTime()
	if !ok {
		t.Fatal("Expected a parsed upper bound")
	}
	if to.Hour() != 23 || to.Minute() != 59 || to.Second() != 59 {
		t.Errorf("Expected end-of-day bound, got %v", to)
	}
}

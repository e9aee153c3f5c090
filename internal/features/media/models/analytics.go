package models

// Analytics is a derived snapshot over the full entry and category
// collections, recomputed on every call.
type Analytics struct {
	TotalEntries       int             `json:"total_entries"`
	ThisMonthEntries   int             `json:"this_month_entries"`
	AverageRating      float64         `json:"average_rating"`
	MostUsedCategory   string          `json:"most_used_category"`
	EntriesByCategory  []CategoryCount `json:"entries_by_category"`
	MonthlyActivity    []MonthActivity `json:"monthly_activity"`
	RatingDistribution []RatingCount   `json:"rating_distribution"`
	TopTags            []TagCount      `json:"top_tags"`
	RecentActivity     []MediaEntry    `json:"recent_activity"`
	StreakDays         int             `json:"streak_days"`
}

// CategoryCount feeds the per-category breakdown chart
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// MonthActivity is the entry count for one trailing calendar month
type MonthActivity struct {
	Month   string `json:"month"`
	Entries int    `json:"entries"`
}

// RatingCount is the number of entries with exactly the given rating
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// TagCount is the number of entries carrying a tag
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"medialog/internal/core"
	"medialog/internal/features/media/migrations"
	"medialog/internal/features/media/models"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *core.Database {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	coreDB := core.NewDatabase(db, core.NewLogger())
	if err := migrations.NewManager(coreDB, core.NewLogger()).Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return coreDB
}

func TestEntryLifecycle(t *testing.T) {
	db := newTestDB(t)
	logger := core.NewLogger()
	entries := NewEntryService(db, logger)
	categories := NewCategoryService(db, logger)
	ctx := context.Background()

	category, err := categories.CreateCategory(ctx, 1, &models.CategoryInput{Name: "Books", Color: "#FF0000"})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	created, err := entries.CreateEntry(ctx, 1, &models.EntryInput{
		Title:       "Dune",
		Description: "Desert planet",
		Rating:      5,
		Tags:        []string{"sci-fi", "classic"},
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}

	if created.Title != "Dune" {
		t.Errorf("Expected title 'Dune', got %q", created.Title)
	}
	if created.Rating == nil || *created.Rating != 5 {
		t.Errorf("Expected rating 5, got %v", created.Rating)
	}
	if len(created.Tags) != 2 || created.Tags[0] != "sci-fi" || created.Tags[1] != "classic" {
		t.Errorf("Expected tags in insertion order, got %v", created.Tags)
	}
	if created.CategoryName == nil || *created.CategoryName != "Books" {
		t.Errorf("Expected denormalized category name, got %v", created.CategoryName)
	}

	// Zero rating clears the stored rating
	updated, err := entries.UpdateEntry(ctx, 1, created.ID, &models.EntryInput{
		Title:  "Dune",
		Rating: 0,
		Tags:   []string{"sci-fi"},
	})
	if err != nil {
		t.Fatalf("Failed to update entry: %v", err)
	}
	if updated.Rating != nil {
		t.Errorf("Expected cleared rating, got %v", updated.Rating)
	}
	if len(updated.Tags) != 1 {
		t.Errorf("Expected replaced tags, got %v", updated.Tags)
	}

	list, err := entries.ListEntries(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(list))
	}

	if err := entries.DeleteEntry(ctx, 1, created.ID); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}
	if _, err := entries.GetEntry(ctx, 1, created.ID); err != ErrEntryNotFound {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestRepeatedTagsCollapseToFirstOccurrence(t *testing.T) {
	db := newTestDB(t)
	entries := NewEntryService(db, core.NewLogger())
	ctx := context.Background()

	created, err := entries.CreateEntry(ctx, 1, &models.EntryInput{
		Title: "Dune",
		Tags:  []string{"sci-fi", "classic", "sci-fi"},
	})
	if err != nil {
		t.Fatalf("Failed to create entry with repeated tags: %v", err)
	}
	if len(created.Tags) != 2 || created.Tags[0] != "sci-fi" || created.Tags[1] != "classic" {
		t.Errorf("Expected repeated tags collapsed in order, got %v", created.Tags)
	}

	updated, err := entries.UpdateEntry(ctx, 1, created.ID, &models.EntryInput{
		Title: "Dune",
		Tags:  []string{"epic", "epic", "epic"},
	})
	if err != nil {
		t.Fatalf("Failed to update entry with repeated tags: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "epic" {
		t.Errorf("Expected single tag after update, got %v", updated.Tags)
	}
}

func TestEntriesAreScopedToUser(t *testing.T) {
	db := newTestDB(t)
	entries := NewEntryService(db, core.NewLogger())
	ctx := context.Background()

	created, err := entries.CreateEntry(ctx, 1, &models.EntryInput{Title: "Mine"})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}

	if _, err := entries.GetEntry(ctx, 2, created.ID); err != ErrEntryNotFound {
		t.Errorf("Expected another user's lookup to miss, got %v", err)
	}

	list, err := entries.ListEntries(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty list for other user, got %d entries", len(list))
	}
}

func TestCategoryDeleteDetachesEntries(t *testing.T) {
	db := newTestDB(t)
	logger := core.NewLogger()
	entries := NewEntryService(db, logger)
	categories := NewCategoryService(db, logger)
	ctx := context.Background()

	category, err := categories.CreateCategory(ctx, 1, &models.CategoryInput{Name: "Films", Color: "#00FF00"})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	created, err := entries.CreateEntry(ctx, 1, &models.EntryInput{Title: "Blade Runner", CategoryID: category.ID})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}

	if err := categories.DeleteCategory(ctx, 1, category.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	got, err := entries.GetEntry(ctx, 1, created.ID)
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("Expected entry detached from deleted category, got %v", got.CategoryID)
	}
}

func TestCategoryEntryCount(t *testing.T) {
	db := newTestDB(t)
	logger := core.NewLogger()
	entries := NewEntryService(db, logger)
	categories := NewCategoryService(db, logger)
	ctx := context.Background()

	category, err := categories.CreateCategory(ctx, 1, &models.CategoryInput{Name: "Games", Color: "#0000FF"})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	for _, title := range []string{"Outer Wilds", "Hades"} {
		if _, err := entries.CreateEntry(ctx, 1, &models.EntryInput{Title: title, CategoryID: category.ID}); err != nil {
			t.Fatalf("Failed to create entry: %v", err)
		}
	}

	list, err := categories.ListCategories(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(list) != 1 || list[0].EntryCount != 2 {
		t.Errorf("Expected entry count 2, got %v", list)
	}
}

func TestSettingsFallBackToDefault(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db, core.NewLogger(), 3)
	ctx := context.Background()

	got, err := settings.GetSettings(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get settings: %v", err)
	}
	if got.ArchiveFrequency != 3 {
		t.Errorf("Expected default frequency 3, got %d", got.ArchiveFrequency)
	}

	if _, err := settings.UpdateSettings(ctx, 1, &models.SettingsInput{ArchiveFrequency: 5}); err != nil {
		t.Fatalf("Failed to update settings: %v", err)
	}
	if _, err := settings.UpdateSettings(ctx, 1, &models.SettingsInput{ArchiveFrequency: 7}); err != nil {
		t.Fatalf("Failed to upsert settings: %v", err)
	}

	got, err = settings.GetSettings(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get settings: %v", err)
	}
	if got.ArchiveFrequency != 7 {
		t.Errorf("Expected saved frequency 7, got %d", got.ArchiveFrequency)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	db := newTestDB(t)
	drafts := NewDraftService(NewSQLiteDraftStore(db), core.NewLogger())
	ctx := context.Background()

	form := &models.EntryInput{Title: "Half-written", Tags: []string{"wip"}}
	saved, err := drafts.SaveDraft(ctx, 1, "new", form)
	if err != nil {
		t.Fatalf("Failed to save draft: %v", err)
	}
	if saved.SavedAt.IsZero() {
		t.Error("Expected saved timestamp to be set")
	}

	got, err := drafts.GetDraft(ctx, 1, "new")
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if got == nil || got.Form.Title != "Half-written" {
		t.Errorf("Expected draft round trip, got %v", got)
	}

	if err := drafts.ClearDraft(ctx, 1, "new"); err != nil {
		t.Fatalf("Failed to clear draft: %v", err)
	}
	got, err = drafts.GetDraft(ctx, 1, "new")
	if err != nil {
		t.Fatalf("Failed to get cleared draft: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no draft after clear, got %v", got)
	}
}

func TestMalformedDraftIsDiscarded(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLiteDraftStore(db)
	drafts := NewDraftService(store, core.NewLogger())
	ctx := context.Background()

	if err := store.Put(ctx, 1, "new", []byte("{not json"), time.Now()); err != nil {
		t.Fatalf("Failed to seed corrupt draft: %v", err)
	}

	got, err := drafts.GetDraft(ctx, 1, "new")
	if err != nil {
		t.Fatalf("Expected corrupt draft to be reported as absent, got error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil draft, got %v", got)
	}

	// The corrupt row is gone
	data, _, err := store.Get(ctx, 1, "new")
	if err != nil {
		t.Fatalf("Failed to check store: %v", err)
	}
	if data != nil {
		t.Error("Expected corrupt draft to be deleted from the store")
	}
}

package services

import (
	"context"
	"database/sql"
	"testing"

	"medialog/internal/core"
	"medialog/internal/features/blog/migrations"
	"medialog/internal/features/blog/models"

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

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  Trimmed  Spaces  ", "trimmed-spaces"},
		{"MiXeD CaSe", "mixed-case"},
		{"100% Go", "100-go"},
		{"already-hyphenated", "already-hyphenated"},
	}

	for _, c := range cases {
		if got := GenerateSlug(c.title); got != c.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestPostLifecycle(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db, core.NewLogger())
	ctx := context.Background()

	created, err := posts.CreatePost(ctx, 1, &models.PostInput{
		Title:   "My First Post",
		Content: "Hello there.",
	})
	if err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if created.Slug != "my-first-post" {
		t.Errorf("Expected slug 'my-first-post', got %q", created.Slug)
	}
	if created.Published {
		t.Error("Expected new post to be a draft")
	}
	if created.PublishedAt != nil {
		t.Error("Expected no publication timestamp for a draft")
	}

	// Drafts are hidden from the public list
	published, err := posts.ListPublishedPosts(ctx)
	if err != nil {
		t.Fatalf("Failed to list published posts: %v", err)
	}
	if len(published) != 0 {
		t.Errorf("Expected no published posts, got %d", len(published))
	}

	all, err := posts.ListAllPosts(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list all posts: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 post in management list, got %d", len(all))
	}

	// Publishing sets the timestamp once
	updated, err := posts.UpdatePost(ctx, 1, created.ID, &models.PostInput{
		Title:     "My First Post",
		Content:   "Hello there.",
		Published: true,
	})
	if err != nil {
		t.Fatalf("Failed to publish post: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("Expected publication timestamp after publishing")
	}
	firstPublished := *updated.PublishedAt

	updated, err = posts.UpdatePost(ctx, 1, created.ID, &models.PostInput{
		Title:     "My First Post",
		Content:   "Edited.",
		Published: true,
	})
	if err != nil {
		t.Fatalf("Failed to edit published post: %v", err)
	}
	if !updated.PublishedAt.Equal(firstPublished) {
		t.Error("Expected publication timestamp to stay fixed across edits")
	}

	got, err := posts.GetPostBySlug(ctx, "my-first-post")
	if err != nil {
		t.Fatalf("Failed to get post by slug: %v", err)
	}
	if got.Content != "Edited." {
		t.Errorf("Expected edited content, got %q", got.Content)
	}

	if err := posts.DeletePost(ctx, 1, created.ID); err != nil {
		t.Fatalf("Failed to delete post: %v", err)
	}
	if _, err := posts.GetPost(ctx, 1, created.ID); err != ErrPostNotFound {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}
}

func TestDuplicateSlugRejected(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db, core.NewLogger())
	ctx := context.Background()

	if _, err := posts.CreatePost(ctx, 1, &models.PostInput{Title: "Same Title", Content: "a"}); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}

	_, err := posts.CreatePost(ctx, 1, &models.PostInput{Title: "Same Title", Content: "b"})
	if err != ErrDuplicateSlug {
		t.Errorf("Expected ErrDuplicateSlug, got %v", err)
	}
}

func TestPostManagementScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db, core.NewLogger())
	ctx := context.Background()

	created, err := posts.CreatePost(ctx, 1, &models.PostInput{
		Title:     "Owned Post",
		Content:   "mine",
		Published: true,
	})
	if err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("Expected post owned by user 1, got user %d", created.UserID)
	}

	if _, err := posts.GetPost(ctx, 2, created.ID); err != ErrPostNotFound {
		t.Errorf("Expected another user's lookup to miss, got %v", err)
	}

	_, err = posts.UpdatePost(ctx, 2, created.ID, &models.PostInput{Title: "Hijacked", Content: "x"})
	if err != ErrPostNotFound {
		t.Errorf("Expected update by another user to miss, got %v", err)
	}

	if err := posts.DeletePost(ctx, 2, created.ID); err != ErrPostNotFound {
		t.Errorf("Expected delete by another user to miss, got %v", err)
	}

	all, err := posts.ListAllPosts(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list posts: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected empty management list for other user, got %d posts", len(all))
	}

	// Published posts are still publicly readable across users
	published, err := posts.ListPublishedPosts(ctx)
	if err != nil {
		t.Fatalf("Failed to list published posts: %v", err)
	}
	if len(published) != 1 {
		t.Errorf("Expected 1 published post in the public list, got %d", len(published))
	}
}

func TestUnpublishedPostHiddenBySlug(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db, core.NewLogger())
	ctx := context.Background()

	if _, err := posts.CreatePost(ctx, 1, &models.PostInput{Title: "Secret Draft", Content: "shh"}); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}

	if _, err := posts.GetPostBySlug(ctx, "secret-draft"); err != ErrPostNotFound {
		t.Errorf("Expected draft to be hidden from slug lookup, got %v", err)
	}
}

package blog

import (
	"context"

	"medialog/internal/core"
	"medialog/internal/features/blog/handlers"
	"medialog/internal/features/blog/migrations"
	"medialog/internal/features/blog/services"
)

// Feature represents the blog feature
type Feature struct {
	*core.BaseFeature
	config       *core.BlogConfig
	migrationMgr *migrations.Manager
	postService  *services.PostService
	handlers     *handlers.Handler
}

// NewFeature creates a new blog feature
func NewFeature(logger *core.Logger, db *core.Database, config *core.BlogConfig) *Feature {
	migrationMgr := migrations.NewManager(db, logger)
	postService := services.NewPostService(db, logger)
	h := handlers.NewHandler(postService, logger)

	return &Feature{
		BaseFeature:  core.NewBaseFeature("blog", "Blog", config.Enabled, logger, db),
		config:       config,
		migrationMgr: migrationMgr,
		postService:  postService,
		handlers:     h,
	}
}

// Init initializes the blog feature
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	if err := f.migrationMgr.Migrate(ctx); err != nil {
		return err
	}

	f.Logger().Info("Blog feature initialized")
	return nil
}

// PublicRoutes returns the unauthenticated blog routes
func (f *Feature) PublicRoutes() []core.Route {
	return []core.Route{
		{Method: "GET", Path: "/blog/posts", Handler: f.handlers.ListPostsHandler},
		{Method: "GET", Path: "/blog/posts/{slug}", Handler: f.handlers.GetPostHandler},
	}
}

// Routes returns the authenticated blog management routes
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: "GET", Path: "/blog/manage/posts", Handler: f.handlers.ListAllPostsHandler},
		{Method: "POST", Path: "/blog/manage/posts", Handler: f.handlers.CreatePostHandler},
		{Method: "PUT", Path: "/blog/manage/posts/{id}", Handler: f.handlers.UpdatePostHandler},
		{Method: "DELETE", Path: "/blog/manage/posts/{id}", Handler: f.handlers.DeletePostHandler},
	}
}

// GetPostService returns the post service
func (f *Feature) GetPostService() *services.PostService {
	return f.postService
}

package media

import (
	"context"
	"time"

	"medialog/internal/core"
	"medialog/internal/features/media/handlers"
	"medialog/internal/features/media/migrations"
	"medialog/internal/features/media/services"
)

// Feature represents the media tracker feature
type Feature struct {
	*core.BaseFeature
	config          *core.MediaConfig
	migrationMgr    *migrations.Manager
	entryService    *services.EntryService
	categoryService *services.CategoryService
	searchService   *services.SearchService
	feedService     *services.FeedService
	analyticsSvc    *services.AnalyticsService
	settingsService *services.SettingsService
	draftService    *services.DraftService
	scraperService  *services.ScraperService
	handlers        *handlers.Handler
}

// NewFeature creates a new media tracker feature
func NewFeature(logger *core.Logger, db *core.Database, config *core.MediaConfig) *Feature {
	migrationMgr := migrations.NewManager(db, logger)

	entryService := services.NewEntryService(db, logger)
	categoryService := services.NewCategoryService(db, logger)
	searchService := services.NewSearchService()
	feedService := services.NewFeedService(nil)
	analyticsSvc := services.NewAnalyticsService()
	settingsService := services.NewSettingsService(db, logger, config.ArchiveFrequency)
	draftService := services.NewDraftService(services.NewSQLiteDraftStore(db), logger)
	scraperService := services.NewScraperService(logger, time.Duration(config.ScrapeTimeout)*time.Second)

	h := handlers.NewHandler(
		entryService,
		categoryService,
		searchService,
		feedService,
		analyticsSvc,
		settingsService,
		draftService,
		scraperService,
		logger,
	)

	return &Feature{
		BaseFeature:     core.NewBaseFeature("media", "Media Tracker", config.Enabled, logger, db),
		config:          config,
		migrationMgr:    migrationMgr,
		entryService:    entryService,
		categoryService: categoryService,
		searchService:   searchService,
		feedService:     feedService,
		analyticsSvc:    analyticsSvc,
		settingsService: settingsService,
		draftService:    draftService,
		scraperService:  scraperService,
		handlers:        h,
	}
}

// Init initializes the media feature
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	if err := f.migrationMgr.Migrate(ctx); err != nil {
		return err
	}

	f.Logger().Info("Media feature initialized")
	return nil
}

// Routes returns the authenticated HTTP routes for the media feature
func (f *Feature) Routes() []core.Route {
	routes := []core.Route{
		// Entry management
		{Method: "GET", Path: "/media/entries", Handler: f.handlers.ListEntriesHandler},
		{Method: "POST", Path: "/media/entries", Handler: f.handlers.CreateEntryHandler},
		{Method: "GET", Path: "/media/entries/{id}", Handler: f.handlers.GetEntryHandler},
		{Method: "PUT", Path: "/media/entries/{id}", Handler: f.handlers.UpdateEntryHandler},
		{Method: "DELETE", Path: "/media/entries/{id}", Handler: f.handlers.DeleteEntryHandler},

		// Feed and search
		{Method: "GET", Path: "/media/feed", Handler: f.handlers.FeedHandler},
		{Method: "GET", Path: "/media/suggestions", Handler: f.handlers.SuggestionsHandler},
		{Method: "GET", Path: "/media/tags", Handler: f.handlers.TagsHandler},

		// Analytics
		{Method: "GET", Path: "/media/analytics", Handler: f.handlers.AnalyticsHandler},

		// Category management
		{Method: "GET", Path: "/media/categories", Handler: f.handlers.ListCategoriesHandler},
		{Method: "POST", Path: "/media/categories", Handler: f.handlers.CreateCategoryHandler},
		{Method: "PUT", Path: "/media/categories/{id}", Handler: f.handlers.UpdateCategoryHandler},
		{Method: "DELETE", Path: "/media/categories/{id}", Handler: f.handlers.DeleteCategoryHandler},

		// Settings and drafts
		{Method: "GET", Path: "/media/settings", Handler: f.handlers.GetSettingsHandler},
		{Method: "PUT", Path: "/media/settings", Handler: f.handlers.UpdateSettingsHandler},
		{Method: "GET", Path: "/media/draft", Handler: f.handlers.GetDraftHandler},
		{Method: "PUT", Path: "/media/draft", Handler: f.handlers.SaveDraftHandler},
		{Method: "DELETE", Path: "/media/draft", Handler: f.handlers.DeleteDraftHandler},
	}

	if f.config.ScrapeEnabled {
		routes = append(routes, core.Route{
			Method: "GET", Path: "/media/scrape-title", Handler: f.handlers.ScrapeTitleHandler,
		})
	}

	return routes
}

// GetMigrationManager returns the migration manager for this feature
func (f *Feature) GetMigrationManager() *migrations.Manager {
	return f.migrationMgr
}

// GetEntryService returns the entry service
func (f *Feature) GetEntryService() *services.EntryService {
	return f.entryService
}

// GetSettingsService returns the settings service
func (f *Feature) GetSettingsService() *services.SettingsService {
	return f.settingsService
}

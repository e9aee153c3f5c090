package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"medialog/internal/auth"
	"medialog/internal/core"
	"medialog/internal/features/media/models"
	"medialog/internal/features/media/services"

	"github.com/go-chi/chi/v5"
)

// Handler provides media HTTP handlers
type Handler struct {
	entries    *services.EntryService
	categories *services.CategoryService
	search     *services.SearchService
	feed       *services.FeedService
	analytics  *services.AnalyticsService
	settings   *services.SettingsService
	drafts     *services.DraftService
	scraper    *services.ScraperService
	logger     *core.Logger
}

// NewHandler creates a new media handler
func NewHandler(
	entries *services.EntryService,
	categories *services.CategoryService,
	search *services.SearchService,
	feed *services.FeedService,
	analytics *services.AnalyticsService,
	settings *services.SettingsService,
	drafts *services.DraftService,
	scraper *services.ScraperService,
	logger *core.Logger,
) *Handler {
	return &Handler{
		entries:    entries,
		categories: categories,
		search:     search,
		feed:       feed,
		analytics:  analytics,
		settings:   settings,
		drafts:     drafts,
		scraper:    scraper,
		logger:     logger,
	}
}

// ListEntriesHandler returns the user's entries, filtered by any active
// search parameters.
func (h *Handler) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	entries, err := h.entries.ListEntries(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list entries", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to list entries", err))
		return
	}

	filters := models.ParseFilters(r.URL.Query())
	filtered := h.search.FilterEntries(entries, filters)

	writeSuccess(w, map[string]interface{}{
		"entries": filtered,
		"total":   len(filtered),
		"filters": filters,
	})
}

// GetEntryHandler returns a single entry
func (h *Handler) GetEntryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	id := chi.URLParam(r, "id")

	entry, err := h.entries.GetEntry(r.Context(), user.ID, id)
	if err != nil {
		h.writeEntryError(w, err)
		return
	}

	writeSuccess(w, entry)
}

// CreateEntryHandler creates a new entry
func (h *Handler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	input, ok := h.decodeEntryInput(w, r)
	if !ok {
		return
	}

	entry, err := h.entries.CreateEntry(r.Context(), user.ID, input)
	if err != nil {
		h.logger.Error("Failed to create entry", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to create entry", err))
		return
	}

	// A successful save makes any autosaved draft for this form stale
	if err := h.drafts.ClearDraft(r.Context(), user.ID, "new"); err != nil {
		h.logger.Warn("Failed to clear draft after create", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    entry,
	})
}

// UpdateEntryHandler replaces an entry's fields
func (h *Handler) UpdateEntryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	id := chi.URLParam(r, "id")

	input, ok := h.decodeEntryInput(w, r)
	if !ok {
		return
	}

	entry, err := h.entries.UpdateEntry(r.Context(), user.ID, id, input)
	if err != nil {
		h.writeEntryError(w, err)
		return
	}

	if err := h.drafts.ClearDraft(r.Context(), user.ID, id); err != nil {
		h.logger.Warn("Failed to clear draft after update", "error", err)
	}

	writeSuccess(w, entry)
}

// DeleteEntryHandler removes an entry
func (h *Handler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	id := chi.URLParam(r, "id")

	if err := h.entries.DeleteEntry(r.Context(), user.ID, id); err != nil {
		h.writeEntryError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"deleted": id})
}

// FeedHandler returns the interleaved feed. Filters apply before assembly;
// the count parameter grows the visible prefix in page-sized steps.
func (h *Handler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	entries, err := h.entries.ListEntries(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list entries for feed", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to load feed", err))
		return
	}

	filters := models.ParseFilters(r.URL.Query())
	filtered := h.search.FilterEntries(entries, filters)

	settings, err := h.settings.GetSettings(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to load settings for feed", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to load feed", err))
		return
	}

	feed := h.feed.AssembleFeed(filtered, settings.ArchiveFrequency, time.Now())

	window := services.NewWindow()
	if count, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && count > 0 {
		window.Size = count
	}
	visible, hasMore := window.Slice(feed)

	writeSuccess(w, map[string]interface{}{
		"items":      visible,
		"has_more":   hasMore,
		"total":      len(feed),
		"next_count": window.LoadMore().Size,
	})
}

// SuggestionsHandler returns search suggestions for a partial query
func (h *Handler) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	entries, err := h.entries.ListEntries(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list entries for suggestions", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to load suggestions", err))
		return
	}

	suggestions := h.search.Suggestions(entries, r.URL.Query().Get("q"))
	writeSuccess(w, map[string]interface{}{"suggestions": suggestions})
}

// TagsHandler returns all distinct tags for filter options
func (h *Handler) TagsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	entries, err := h.entries.ListEntries(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list entries for tags", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to load tags", err))
		return
	}

	writeSuccess(w, map[string]interface{}{"tags": h.search.AvailableTags(entries)})
}

// AnalyticsHandler returns the derived statistics snapshot
func (h *Handler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	entries, err := h.entries.ListEntries(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list entries for analytics", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to load analytics", err))
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list categories for analytics", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to load analytics", err))
		return
	}

	writeSuccess(w, h.analytics.Aggregate(entries, categories, time.Now()))
}

// ListCategoriesHandler returns the user's categories with entry counts
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	categories, err := h.categories.ListCategories(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list categories", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to list categories", err))
		return
	}

	writeSuccess(w, map[string]interface{}{"categories": categories})
}

// CreateCategoryHandler creates a new category
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	var input models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid request body", err))
		return
	}
	if input.Color == "" {
		input.Color = models.DefaultCategoryColor
	}
	if appErr := core.ValidateStruct(&input); appErr != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, appErr)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), user.ID, &input)
	if err != nil {
		h.logger.Error("Failed to create category", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to create category", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    category,
	})
}

// UpdateCategoryHandler updates a category
func (h *Handler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	id := chi.URLParam(r, "id")

	var input models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid request body", err))
		return
	}
	if appErr := core.ValidateStruct(&input); appErr != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, appErr)
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), user.ID, id, &input)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			core.WriteErrorResponse(w, http.StatusNotFound, core.NewAppError(
				core.ErrCodeNotFound, "Category not found", err))
			return
		}
		h.logger.Error("Failed to update category", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to update category", err))
		return
	}

	writeSuccess(w, category)
}

// DeleteCategoryHandler removes a category, detaching its entries
func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	id := chi.URLParam(r, "id")

	if err := h.categories.DeleteCategory(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			core.WriteErrorResponse(w, http.StatusNotFound, core.NewAppError(
				core.ErrCodeNotFound, "Category not found", err))
			return
		}
		h.logger.Error("Failed to delete category", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to delete category", err))
		return
	}

	writeSuccess(w, map[string]interface{}{"deleted": id})
}

// GetSettingsHandler returns the user's settings
func (h *Handler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	settings, err := h.settings.GetSettings(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get settings", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to get settings", err))
		return
	}

	writeSuccess(w, settings)
}

// UpdateSettingsHandler updates the user's settings
func (h *Handler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	var input models.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid request body", err))
		return
	}
	if appErr := core.ValidateStruct(&input); appErr != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, appErr)
		return
	}

	settings, err := h.settings.UpdateSettings(r.Context(), user.ID, &input)
	if err != nil {
		h.logger.Error("Failed to update settings", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to update settings", err))
		return
	}

	writeSuccess(w, settings)
}

// GetDraftHandler returns the autosaved draft for a key, if any
func (h *Handler) GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	key := draftKey(r)

	draft, err := h.drafts.GetDraft(r.Context(), user.ID, key)
	if err != nil {
		h.logger.Error("Failed to get draft", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to get draft", err))
		return
	}

	writeSuccess(w, map[string]interface{}{"draft": draft})
}

// SaveDraftHandler autosaves the entry form state for a key
func (h *Handler) SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	key := draftKey(r)

	var form models.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid request body", err))
		return
	}

	draft, err := h.drafts.SaveDraft(r.Context(), user.ID, key, &form)
	if err != nil {
		h.logger.Error("Failed to save draft", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to save draft", err))
		return
	}

	writeSuccess(w, draft)
}

// DeleteDraftHandler discards the autosaved draft for a key
func (h *Handler) DeleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	key := draftKey(r)

	if err := h.drafts.ClearDraft(r.Context(), user.ID, key); err != nil {
		h.logger.Error("Failed to delete draft", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to delete draft", err))
		return
	}

	writeSuccess(w, map[string]interface{}{"deleted": key})
}

// ScrapeTitleHandler fetches the title of an external page. Scrapes are
// keyed by user and form so only a newer request for the same form can
// supersede an in-flight one.
func (h *Handler) ScrapeTitleHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	rawURL := r.URL.Query().Get("url")
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid url parameter", err))
		return
	}

	key := strconv.Itoa(user.ID) + "/" + draftKey(r)
	token := h.scraper.Begin(key)
	title, err := h.scraper.ScrapeTitle(r.Context(), rawURL, key, token)
	if err != nil {
		if errors.Is(err, services.ErrSuperseded) {
			core.WriteErrorResponse(w, http.StatusConflict, core.NewAppError(
				core.ErrCodeFeature, "Scrape superseded by a newer request", err))
			return
		}
		h.logger.Warn("Title scrape failed", "url", rawURL, "error", err)
		core.WriteErrorResponse(w, http.StatusBadGateway, core.NewAppError(
			core.ErrCodeFeature, "Failed to scrape title", err))
		return
	}

	writeSuccess(w, map[string]interface{}{"title": title})
}

func (h *Handler) decodeEntryInput(w http.ResponseWriter, r *http.Request) (*models.EntryInput, bool) {
	var input models.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid request body", err))
		return nil, false
	}
	if appErr := core.ValidateStruct(&input); appErr != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, appErr)
		return nil, false
	}
	return &input, true
}

func (h *Handler) writeEntryError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrEntryNotFound) {
		core.WriteErrorResponse(w, http.StatusNotFound, core.NewAppError(
			core.ErrCodeNotFound, "Entry not found", err))
		return
	}
	h.logger.Error("Entry operation failed", "error", err)
	core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
		core.ErrCodeDatabase, "Entry operation failed", err))
}

func draftKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return "new"
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"medialog/internal/auth"
	"medialog/internal/core"
	"medialog/internal/features/blog/models"
	"medialog/internal/features/blog/services"

	"github.com/go-chi/chi/v5"
)

// Handler provides blog HTTP handlers
type Handler struct {
	posts  *services.PostService
	logger *core.Logger
}

// NewHandler creates a new blog handler
func NewHandler(posts *services.PostService, logger *core.Logger) *Handler {
	return &Handler{
		posts:  posts,
		logger: logger,
	}
}

// ListPostsHandler returns published posts
func (h *Handler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPublishedPosts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list posts", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to list posts", err))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// GetPostHandler returns a published post by slug
func (h *Handler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.posts.GetPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			core.WriteErrorResponse(w, http.StatusNotFound, core.NewAppError(
				core.ErrCodeNotFound, "Post not found", err))
			return
		}
		h.logger.Error("Failed to get post", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to get post", err))
		return
	}

	writeSuccess(w, http.StatusOK, post)
}

// ListAllPostsHandler returns the user's posts including drafts
func (h *Handler) ListAllPostsHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	posts, err := h.posts.ListAllPosts(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list posts", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Failed to list posts", err))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// CreatePostHandler creates a new post owned by the user
func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	input, ok := h.decodePostInput(w, r)
	if !ok {
		return
	}

	post, err := h.posts.CreatePost(r.Context(), user.ID, input)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, post)
}

// UpdatePostHandler replaces a post's fields
func (h *Handler) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid post ID", err))
		return
	}

	input, ok := h.decodePostInput(w, r)
	if !ok {
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), user.ID, id, input)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, post)
}

// DeletePostHandler removes a post
func (h *Handler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid post ID", err))
		return
	}

	if err := h.posts.DeletePost(r.Context(), user.ID, id); err != nil {
		h.writePostError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (h *Handler) decodePostInput(w http.ResponseWriter, r *http.Request) (*models.PostInput, bool) {
	var input models.PostInput
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

func (h *Handler) writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		core.WriteErrorResponse(w, http.StatusNotFound, core.NewAppError(
			core.ErrCodeNotFound, "Post not found", err))
	case errors.Is(err, services.ErrDuplicateSlug):
		core.WriteErrorResponse(w, http.StatusConflict, core.NewAppError(
			core.ErrCodeValidation, "A post with this slug already exists", err))
	default:
		h.logger.Error("Post operation failed", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeDatabase, "Post operation failed", err))
	}
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

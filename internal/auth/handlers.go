package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"medialog/internal/core"
)

// Handler provides authentication HTTP handlers
type Handler struct {
	service *Service
	logger  *core.Logger
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, logger *core.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	User  *User  `json:"user"`
	Token *Token `json:"token"`
}

// LoginHandler handles user login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewAppError(
			core.ErrCodeValidation, "Invalid request body", err))
		return
	}

	if appErr := core.ValidateStruct(&req); appErr != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, appErr)
		return
	}

	user, err := h.service.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewAppError(
				core.ErrCodeUnauthorized, "Invalid credentials", err))
		case errors.Is(err, ErrUserNotActivated):
			core.WriteErrorResponse(w, http.StatusForbidden, core.NewAppError(
				core.ErrCodeForbidden, "Account not activated", err))
		default:
			h.logger.Error("Authentication error", "error", err)
			core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
				core.ErrCodeInternal, "Authentication failed", err))
		}
		return
	}

	token, err := h.service.CreateAuthenticationToken(user)
	if err != nil {
		h.logger.Error("Token creation error", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeInternal, "Failed to create authentication token", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token.Plaintext,
		Path:     "/",
		HttpOnly: true,
		Secure:   true, // Set to false for development without HTTPS
		SameSite: http.SameSiteStrictMode,
		Expires:  token.Expiry,
	})

	response := LoginResponse{
		User:  user,
		Token: token,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    response,
	})

	h.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)
}

// LogoutHandler handles user logout
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user.IsAnonymous() {
		core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewAppError(
			core.ErrCodeUnauthorized, "Not authenticated", nil))
		return
	}

	err := h.service.LogoutUser(user.ID)
	if err != nil {
		h.logger.Error("Logout error", "error", err)
		core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
			core.ErrCodeInternal, "Logout failed", err))
		return
	}

	clearAuthCookie(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})

	h.logger.Info("User logged out", "user_id", user.ID, "email", user.Email)
}

// MeHandler returns the authenticated user
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user.IsAnonymous() {
		core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewAppError(
			core.ErrCodeUnauthorized, "Not authenticated", nil))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    user,
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
	})
}

// GetUserFromContext extracts user from request context
func GetUserFromContext(r *http.Request) *User {
	user, ok := r.Context().Value(userContextKey).(*User)
	if !ok {
		return AnonymousUser
	}
	return user
}

func contextSetUser(r *http.Request, user *User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/observability"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/storage"
)

// UserStore manages user accounts.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, role storage.Role) (*storage.UserAccount, error)
	Authenticate(ctx context.Context, email, password string) (*storage.UserAccount, error)
	List(ctx context.Context) ([]storage.UserAccount, error)
	DeleteByEmail(ctx context.Context, email string) error
	UpdateRole(ctx context.Context, email string, role storage.Role) error
}

// UserHandler serves the account management endpoints.
type UserHandler struct {
	logger *observability.Logger
	users  UserStore
}

// NewUserHandler creates a user handler.
func NewUserHandler(logger *observability.Logger, users UserStore) *UserHandler {
	return &UserHandler{logger: logger, users: users}
}

// SignupRequest is the signup payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RoleUpdateRequest is the role-change payload.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// Signup handles POST /api/v1/users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, req.Email, req.Password, storage.RoleUser)
	switch {
	case errors.Is(err, storage.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already exists")
		return
	case errors.Is(err, storage.ErrStoreDisabled):
		writeError(w, http.StatusServiceUnavailable, "user store not configured")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("Signup failed")
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	h.logger.Info().Str("email", user.Email).Msg("Account created")
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login. Bad credentials are an explicit
// outcome, not a server error.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, storage.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false})
		return
	case errors.Is(err, storage.ErrStoreDisabled):
		writeError(w, http.StatusServiceUnavailable, "user store not configured")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "could not validate credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("User listing failed")
		writeError(w, http.StatusInternalServerError, "could not list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Delete handles DELETE /api/v1/users/{email}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)

	err := h.users.DeleteByEmail(r.Context(), email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, storage.ErrStoreDisabled):
		writeError(w, http.StatusServiceUnavailable, "user store not configured")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("email", email).Msg("User deletion failed")
		writeError(w, http.StatusInternalServerError, "could not delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateRole handles PUT /api/v1/users/{email}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)

	var req RoleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := storage.Role(req.Role)
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "role must be admin or user")
		return
	}

	err := h.users.UpdateRole(r.Context(), email, role)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, storage.ErrStoreDisabled):
		writeError(w, http.StatusServiceUnavailable, "user store not configured")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("email", email).Msg("Role update failed")
		writeError(w, http.StatusInternalServerError, "could not update role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": email, "role": req.Role})
}

func emailParam(r *http.Request) string {
	email := chi.URLParam(r, "email")
	if decoded, err := url.PathUnescape(email); err == nil {
		return decoded
	}
	return email
}

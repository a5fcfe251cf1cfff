package http

import (
	"encoding/json"
	"net/http"

	"github.com/flagforge/flagforge/internal/middleware"
	"github.com/flagforge/flagforge/internal/models"
)

// Register handles POST /users/. Development accounts start active, so the
// returned user can log in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var info models.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil || info.Username == "" || info.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	user, err := h.Store.CreateUser(info)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Token handles POST /token. The endpoint is form-encoded, matching the
// OAuth2 password flow the real backend exposes.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	token, err := h.Store.Authenticate(r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /users/me, returning the profile with solves attached.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	user, err := h.Store.Profile(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

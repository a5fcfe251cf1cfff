package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/flagforge/flagforge/internal/middleware"
	"github.com/flagforge/flagforge/internal/models"
)

func pageParams(r *http.Request, defaultLimit int) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	return skip, limit
}

// Notifications handles GET /notifications/ with skip/limit paging.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	skip, limit := pageParams(r, 100)
	list := h.Store.NotificationsFor(userID, skip, limit)
	if list == nil {
		list = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

// MarkNotificationRead handles POST /notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid notification id")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	note, err := h.Store.MarkNotificationRead(userID, id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Notification not found or you do not have permission to access it.")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// PublicSettings handles GET /settings/public. No authentication: the
// landing page reads this before login.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.PublicSettings())
}

// CreateWriteup handles POST /writeups/.
func (h *Handler) CreateWriteup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChallengeID int    `json:"challenge_id"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "challenge_id and content are required")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	created, err := h.Store.CreateWriteup(userID, body.ChallengeID, body.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/flagforge/flagforge/internal/middleware"
	"github.com/flagforge/flagforge/internal/models"
	"github.com/flagforge/flagforge/internal/server/store"
)

// RequireStaff gates the /admin subtree on the staff flag.
func (h *Handler) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok || !h.Store.IsStaff(userID) {
			writeDetail(w, http.StatusForbidden, "The user doesn't have enough privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func adminID(r *http.Request) int {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// AdminListChallenges handles GET /admin/challenges/.
func (h *Handler) AdminListChallenges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.AllChallenges())
}

// AdminGetChallenge handles GET /admin/challenges/{id}.
func (h *Handler) AdminGetChallenge(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid challenge id")
		return
	}
	ch, err := h.Store.AdminChallenge(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Challenge not found")
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// AdminCreateChallenge handles POST /admin/challenges/.
func (h *Handler) AdminCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var data models.ChallengeUpsert
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	ch, err := h.Store.CreateChallenge(adminID(r), data)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

// AdminUpdateChallenge handles PUT /admin/challenges/{id}.
func (h *Handler) AdminUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid challenge id")
		return
	}
	var data models.ChallengeUpsert
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	ch, err := h.Store.UpdateChallenge(adminID(r), id, data)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// AdminDeleteChallenge handles DELETE /admin/challenges/{id}.
func (h *Handler) AdminDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid challenge id")
		return
	}
	if err := h.Store.DeleteChallenge(adminID(r), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminListUsers handles GET /admin/users/.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Users())
}

// AdminGetUser handles GET /admin/users/{id}.
func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}
	user, err := h.Store.User(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AdminUpdateUser handles PUT /admin/users/{id}.
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}
	var patch store.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	user, err := h.Store.UpdateUser(adminID(r), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AdminDeleteUser handles DELETE /admin/users/{id}.
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}
	if err := h.Store.DeleteUser(adminID(r), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminListTags handles GET /admin/tags/.
func (h *Handler) AdminListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Tags())
}

// AdminCreateTag handles POST /admin/tags/.
func (h *Handler) AdminCreateTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	tag, err := h.Store.CreateTag(adminID(r), body.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// AdminGetSettings handles GET /admin/settings/.
func (h *Handler) AdminGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Settings())
}

// AdminUpdateSettings handles PUT /admin/settings/.
func (h *Handler) AdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var cfg models.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	writeJSON(w, http.StatusOK, h.Store.UpdateSettings(adminID(r), cfg))
}

// AdminListLogs handles GET /admin/logs/ with skip/limit paging; the total
// count rides in the x-total-count header.
func (h *Handler) AdminListLogs(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r, 20)
	logs, total := h.Store.Logs(skip, limit)
	if logs == nil {
		logs = []models.AuditLog{}
	}
	w.Header().Set("x-total-count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, logs)
}

// AdminListWriteups handles GET /admin/writeups/.
func (h *Handler) AdminListWriteups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Writeups())
}

// AdminModerateWriteup handles POST /admin/writeups/{id}/moderate.
func (h *Handler) AdminModerateWriteup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid writeup id")
		return
	}
	var body struct {
		Status string `json:"status"`
		Points int    `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	switch body.Status {
	case models.WriteupApproved, models.WriteupRejected, models.WriteupPending:
	default:
		writeDetail(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}
	updated, err := h.Store.ModerateWriteup(adminID(r), id, body.Status, body.Points)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/flagforge/flagforge/internal/middleware"
)

// ListTeams handles GET /teams/.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Teams())
}

// GetTeam handles GET /teams/{id}.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid team id")
		return
	}
	team, err := h.Store.Team(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Team not found")
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// CreateTeam handles POST /teams/.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	team, err := h.Store.CreateTeam(userID, body.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// JoinTeam handles POST /teams/{id}/join.
func (h *Handler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid team id")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.Store.JoinTeam(userID, id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "joined"})
}

// LeaveTeam handles POST /teams/leave.
func (h *Handler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.Store.LeaveTeam(userID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "left"})
}

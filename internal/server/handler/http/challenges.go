package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/middleware"
)

func urlID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// ListChallenges handles GET /challenges/.
func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.Store.VisibleChallenges(userID))
}

// GetChallenge handles GET /challenges/{id}.
func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid challenge id")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	ch, err := h.Store.Challenge(id, userID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Challenge not found")
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// SubmitFlag handles POST /challenges/{id}/submit. An accepted flag is
// pushed onto the activity feed.
func (h *Handler) SubmitFlag(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid challenge id")
		return
	}
	var body struct {
		Flag string `json:"flag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "flag is required")
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	teamID, err := h.Store.SubmitFlag(userID, id, body.Flag)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.Log.Info("flag accepted", zap.Int("user", userID), zap.Int("challenge", id))
	h.Hub.Broadcast(map[string]any{
		"type":         "solve",
		"user_id":      userID,
		"team_id":      teamID,
		"challenge_id": id,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Correct flag!"})
}

// Leaderboard handles GET /leaderboard/.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Leaderboard())
}

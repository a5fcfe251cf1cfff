// Package http provides the development server's HTTP handlers. They mimic
// the platform API's visible behavior, including its {"detail": ...} error
// convention, against the in-memory store.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/server/store"
)

// Handler carries the dependencies shared by all routes.
type Handler struct {
	Store *store.Memory
	Hub   *Hub
	Log   *zap.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeStoreError maps store sentinels onto the statuses and messages the
// real backend uses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrConflict):
		writeDetail(w, http.StatusConflict, "Already exists")
	case errors.Is(err, store.ErrBadCredentials):
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, store.ErrInactive):
		writeDetail(w, http.StatusBadRequest, "Inactive user. Please verify your email.")
	case errors.Is(err, store.ErrLocked):
		writeDetail(w, http.StatusForbidden, "Challenge is locked. Solve dependencies first.")
	case errors.Is(err, store.ErrAlreadySolved):
		writeDetail(w, http.StatusBadRequest, "You have already solved this challenge.")
	case errors.Is(err, store.ErrIncorrectFlag):
		writeDetail(w, http.StatusBadRequest, "Incorrect flag.")
	case errors.Is(err, store.ErrHasTeam):
		writeDetail(w, http.StatusBadRequest, "You are already on a team.")
	case errors.Is(err, store.ErrNoTeam):
		writeDetail(w, http.StatusBadRequest, "You are not on a team.")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal error")
	}
}

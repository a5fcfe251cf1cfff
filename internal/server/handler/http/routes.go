package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/middleware"
	"github.com/flagforge/flagforge/internal/server/store"
)

// NewRouter mounts the development server's API under /api and the activity
// feed at /ws/activity.
//
// Middleware chain:
//  1. WithRequestLogging(logger) — logs every request
//  2. AllowContentType        — restricts /api request bodies to JSON or form
//  3. TokenAuth               — bearer-token auth on the protected group
//  4. RequireStaff            — staff gate on the /admin subtree
func NewRouter(mem *store.Memory, hub *Hub, logger *zap.Logger) http.Handler {
	h := &Handler{Store: mem, Hub: hub, Log: logger}

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// JSON everywhere except the OAuth2-style token endpoint, which is
		// form-encoded.
		r.Use(chiMiddleware.AllowContentType("application/json", "application/x-www-form-urlencoded"))

		// Public endpoints
		r.Post("/users/", h.Register)
		r.Post("/token", h.Token)
		r.Get("/settings/public", h.PublicSettings)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(mem))

			r.Get("/users/me", h.Me)

			r.Get("/challenges/", h.ListChallenges)
			r.Get("/challenges/{id}", h.GetChallenge)
			r.Post("/challenges/{id}/submit", h.SubmitFlag)

			r.Get("/leaderboard/", h.Leaderboard)

			r.Get("/teams/", h.ListTeams)
			r.Post("/teams/", h.CreateTeam)
			r.Post("/teams/leave", h.LeaveTeam)
			r.Get("/teams/{id}", h.GetTeam)
			r.Post("/teams/{id}/join", h.JoinTeam)

			r.Get("/notifications/", h.Notifications)
			r.Post("/notifications/{id}/read", h.MarkNotificationRead)

			r.Post("/writeups/", h.CreateWriteup)

			// Admin subtree
			r.Route("/admin", func(r chi.Router) {
				r.Use(h.RequireStaff)

				r.Get("/challenges/", h.AdminListChallenges)
				r.Post("/challenges/", h.AdminCreateChallenge)
				r.Get("/challenges/{id}", h.AdminGetChallenge)
				r.Put("/challenges/{id}", h.AdminUpdateChallenge)
				r.Delete("/challenges/{id}", h.AdminDeleteChallenge)

				r.Get("/users/", h.AdminListUsers)
				r.Get("/users/{id}", h.AdminGetUser)
				r.Put("/users/{id}", h.AdminUpdateUser)
				r.Delete("/users/{id}", h.AdminDeleteUser)

				r.Get("/tags/", h.AdminListTags)
				r.Post("/tags/", h.AdminCreateTag)

				r.Get("/settings/", h.AdminGetSettings)
				r.Put("/settings/", h.AdminUpdateSettings)

				r.Get("/logs/", h.AdminListLogs)

				r.Get("/writeups/", h.AdminListWriteups)
				r.Post("/writeups/{id}/moderate", h.AdminModerateWriteup)
			})
		})
	})

	r.Get("/ws/activity", hub.Serve)

	return r
}

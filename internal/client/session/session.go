// Package session owns the authentication lifecycle: registering, logging
// in (password or social token), fetching and refreshing the profile, and
// logging out. The access token is the single authority for whether the
// session is authenticated; there is no separate flag to drift from it.
// Every token or profile mutation is committed to the credentials store
// before the call returns.
package session

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/client/creds"
	"github.com/flagforge/flagforge/internal/models"
)

// SolveSet receives the solve set derived from the profile. The session
// store is its only writer.
type SolveSet interface {
	Populate(solves []models.Solve)
	Clear()
}

// Navigator is notified when the session forces a view change (logout →
// login view).
type Navigator interface {
	Push(route string)
}

// LoginRoute is the route name the store navigates to on logout.
const LoginRoute = "login"

// Store holds the current session. All methods are safe for use from the
// single event goroutine plus the feed goroutine.
type Store struct {
	api    *api.Client
	creds  *creds.Store
	solves SolveSet
	nav    Navigator
	log    *zap.Logger

	mu   sync.Mutex
	user *models.User
}

// New hydrates a Store from the credentials store. A previously persisted
// profile is restored so the first render has a user before any network
// round-trip.
func New(apiClient *api.Client, cs *creds.Store, solves SolveSet, nav Navigator, log *zap.Logger) *Store {
	s := &Store{
		api:    apiClient,
		creds:  cs,
		solves: solves,
		nav:    nav,
		log:    log,
	}
	if raw := cs.User(); raw != nil {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			log.Warn("discarding unreadable persisted profile", zap.Error(err))
		} else {
			s.user = &u
			s.solves.Populate(u.Solves)
		}
	}
	return s
}

// Token returns the current access token, empty when logged out.
func (s *Store) Token() string { return s.creds.Token() }

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated() bool { return s.creds.Token() != "" }

// User returns the current profile, nil before the first fetch or after
// logout.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsStaff reports whether the current profile carries admin privilege.
func (s *Store) IsStaff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsStaff
}

// Register submits new-account data and returns the created user. Server
// errors propagate as *api.Error so forms can show field-level messages.
func (s *Store) Register(ctx context.Context, info models.UserCreate) (*models.User, error) {
	var u models.User
	if err := s.api.Post(ctx, "/users/", info, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for an access token at the form-encoded token
// endpoint, then fetches the profile and populates the solve set. On token
// failure nothing is stored; on profile failure FetchUser has already
// forced a logout and the error propagates.
func (s *Store) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.TokenResponse
	if err := s.api.PostForm(ctx, "/token", form, &tok); err != nil {
		return err
	}
	if err := s.creds.SetToken(tok.AccessToken); err != nil {
		return err
	}
	return s.FetchUser(ctx)
}

// HandleSocialLogin accepts a token obtained out of band (OAuth redirect
// callback) and runs the same post-login sequence as Login.
func (s *Store) HandleSocialLogin(ctx context.Context, token string) error {
	if err := s.creds.SetToken(token); err != nil {
		return err
	}
	return s.FetchUser(ctx)
}

// FetchUser retrieves the current profile with the stored token and
// populates the solve set from it. Any failure, including 401, means the
// session is unusable: the store logs out and re-raises.
func (s *Store) FetchUser(ctx context.Context) error {
	var u models.User
	if _, err := s.api.Get(ctx, "/users/me", nil, &u); err != nil {
		s.log.Error("failed to fetch user", zap.Error(err))
		s.Logout()
		return err
	}
	s.setUser(&u)
	return nil
}

// RefreshUserProfile is a best-effort profile re-fetch after actions that
// change score or team state. It no-ops without a token, logs out on 401,
// and only logs any other failure: a refresh hiccup must not undo the
// action that triggered it. Unlike FetchUser it never re-raises.
func (s *Store) RefreshUserProfile(ctx context.Context) {
	if s.creds.Token() == "" {
		return
	}
	var u models.User
	if _, err := s.api.Get(ctx, "/users/me", nil, &u); err != nil {
		s.log.Warn("could not refresh user profile", zap.Error(err))
		if api.IsUnauthorized(err) {
			s.Logout()
		}
		return
	}
	s.setUser(&u)
}

func (s *Store) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	if raw, err := json.Marshal(u); err == nil {
		if err := s.creds.SetUser(raw); err != nil {
			s.log.Warn("failed to persist profile", zap.Error(err))
		}
	}
	s.solves.Populate(u.Solves)
}

// Logout clears the token, the profile, the solve set, and both persisted
// keys, then navigates to the login view.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.log.Warn("failed to clear persisted session", zap.Error(err))
	}
	s.solves.Clear()
	if s.nav != nil {
		s.nav.Push(LoginRoute)
	}
}

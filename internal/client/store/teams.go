package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Teams mirrors the team list and one current detail record. Team
// membership itself lives on the user profile, so every mutation ends with
// a session profile refresh instead of duplicating membership here.
type Teams struct {
	api     *api.Client
	session ProfileRefresher
	log     *zap.Logger

	mu      sync.Mutex
	teams   []models.Team
	current *models.Team
}

// NewTeams constructs the store.
func NewTeams(apiClient *api.Client, session ProfileRefresher, log *zap.Logger) *Teams {
	return &Teams{api: apiClient, session: session, log: log}
}

// All returns the cached team list.
func (t *Teams) All() []models.Team {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.teams
}

// Current returns the cached team detail, nil when none is loaded.
func (t *Teams) Current() *models.Team {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Fetch replaces the team list wholesale.
func (t *Teams) Fetch(ctx context.Context) error {
	var list []models.Team
	if _, err := t.api.Get(ctx, "/teams/", nil, &list); err != nil {
		t.log.Error("failed to fetch teams", zap.Error(err))
		return err
	}
	t.mu.Lock()
	t.teams = list
	t.mu.Unlock()
	return nil
}

// FetchDetail loads one team into the current record, clearing it on error.
func (t *Teams) FetchDetail(ctx context.Context, id int) error {
	var team models.Team
	if _, err := t.api.Get(ctx, fmt.Sprintf("/teams/%d", id), nil, &team); err != nil {
		t.log.Error("failed to fetch team", zap.Int("id", id), zap.Error(err))
		t.mu.Lock()
		t.current = nil
		t.mu.Unlock()
		return err
	}
	t.mu.Lock()
	t.current = &team
	t.mu.Unlock()
	return nil
}

// Create creates a team, then refreshes the profile to pick up the new
// team membership.
func (t *Teams) Create(ctx context.Context, name string) error {
	if err := t.api.Post(ctx, "/teams/", map[string]string{"name": name}, nil); err != nil {
		t.log.Warn("failed to create team", zap.Error(err))
		return err
	}
	t.session.RefreshUserProfile(ctx)
	return nil
}

// Join joins a team, then refreshes the profile.
func (t *Teams) Join(ctx context.Context, teamID int) error {
	if err := t.api.Post(ctx, fmt.Sprintf("/teams/%d/join", teamID), nil, nil); err != nil {
		t.log.Warn("failed to join team", zap.Int("team", teamID), zap.Error(err))
		return err
	}
	t.session.RefreshUserProfile(ctx)
	return nil
}

// Leave leaves the current team, clears the detail record, then refreshes
// the profile.
func (t *Teams) Leave(ctx context.Context) error {
	if err := t.api.Post(ctx, "/teams/leave", nil, nil); err != nil {
		t.log.Warn("failed to leave team", zap.Error(err))
		return err
	}
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()
	t.session.RefreshUserProfile(ctx)
	return nil
}

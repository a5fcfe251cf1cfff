package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Leaderboard mirrors the competition standings.
type Leaderboard struct {
	api *api.Client
	log *zap.Logger

	mu      sync.Mutex
	entries []models.LeaderboardEntry
}

// NewLeaderboard constructs the store.
func NewLeaderboard(apiClient *api.Client, log *zap.Logger) *Leaderboard {
	return &Leaderboard{api: apiClient, log: log}
}

// Entries returns the cached standings.
func (l *Leaderboard) Entries() []models.LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries
}

// Fetch replaces the standings wholesale.
func (l *Leaderboard) Fetch(ctx context.Context) error {
	var list []models.LeaderboardEntry
	if _, err := l.api.Get(ctx, "/leaderboard/", nil, &list); err != nil {
		l.log.Error("failed to fetch leaderboard", zap.Error(err))
		return err
	}
	l.mu.Lock()
	l.entries = list
	l.mu.Unlock()
	return nil
}

package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Settings mirrors the public competition settings. A failed fetch is
// silent; callers fall back to defaults.
type Settings struct {
	api *api.Client
	log *zap.Logger

	mu       sync.Mutex
	settings *models.Settings
}

// NewSettings constructs the store.
func NewSettings(apiClient *api.Client, log *zap.Logger) *Settings {
	return &Settings{api: apiClient, log: log}
}

// Current returns the cached settings, nil until the first successful
// fetch.
func (s *Settings) Current() *models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// FetchPublic loads the public settings. Errors are logged only.
func (s *Settings) FetchPublic(ctx context.Context) {
	var cfg models.Settings
	if _, err := s.api.Get(ctx, "/settings/public", nil, &cfg); err != nil {
		s.log.Warn("failed to fetch public settings", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.settings = &cfg
	s.mu.Unlock()
}

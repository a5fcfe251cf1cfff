package admin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Settings manages the full competition settings record.
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

// Current returns the cached settings, nil until fetched.
func (s *Settings) Current() *models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Fetch loads the full settings record.
func (s *Settings) Fetch(ctx context.Context) error {
	var cfg models.Settings
	if _, err := s.api.Get(ctx, "/admin/settings/", nil, &cfg); err != nil {
		s.log.Error("failed to fetch settings", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.settings = &cfg
	s.mu.Unlock()
	return nil
}

// Update puts new settings and replaces the cached record with the server's
// response.
func (s *Settings) Update(ctx context.Context, data models.Settings) (*models.Settings, error) {
	var updated models.Settings
	if err := s.api.Put(ctx, "/admin/settings/", data, &updated); err != nil {
		s.log.Warn("failed to update settings", zap.Error(err))
		return nil, err
	}
	s.mu.Lock()
	s.settings = &updated
	s.mu.Unlock()
	return &updated, nil
}

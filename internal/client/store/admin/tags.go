package admin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Tags manages challenge tags.
type Tags struct {
	api *api.Client
	log *zap.Logger

	mu   sync.Mutex
	tags []models.Tag
}

// NewTags constructs the store.
func NewTags(apiClient *api.Client, log *zap.Logger) *Tags {
	return &Tags{api: apiClient, log: log}
}

// All returns the cached tags.
func (t *Tags) All() []models.Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tags
}

// Fetch replaces the tag list wholesale.
func (t *Tags) Fetch(ctx context.Context) error {
	var list []models.Tag
	if _, err := t.api.Get(ctx, "/admin/tags/", nil, &list); err != nil {
		t.log.Error("failed to fetch tags", zap.Error(err))
		return err
	}
	t.mu.Lock()
	t.tags = list
	t.mu.Unlock()
	return nil
}

// Create posts a new tag and appends the returned record.
func (t *Tags) Create(ctx context.Context, name string) (*models.Tag, error) {
	var created models.Tag
	if err := t.api.Post(ctx, "/admin/tags/", map[string]string{"name": name}, &created); err != nil {
		t.log.Warn("failed to create tag", zap.Error(err))
		return nil, err
	}
	t.mu.Lock()
	t.tags = append(t.tags, created)
	t.mu.Unlock()
	return &created, nil
}

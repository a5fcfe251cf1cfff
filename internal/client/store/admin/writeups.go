package admin

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Writeups is the moderation queue for submitted write-ups.
type Writeups struct {
	api *api.Client
	log *zap.Logger

	mu       sync.Mutex
	writeups []models.Writeup
}

// NewWriteups constructs the store.
func NewWriteups(apiClient *api.Client, log *zap.Logger) *Writeups {
	return &Writeups{api: apiClient, log: log}
}

// All returns the cached queue.
func (w *Writeups) All() []models.Writeup {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeups
}

// Fetch replaces the queue wholesale.
func (w *Writeups) Fetch(ctx context.Context) error {
	var list []models.Writeup
	if _, err := w.api.Get(ctx, "/admin/writeups/", nil, &list); err != nil {
		w.log.Error("failed to fetch write-ups", zap.Error(err))
		return err
	}
	w.mu.Lock()
	w.writeups = list
	w.mu.Unlock()
	return nil
}

// Moderate sets a write-up's status and awarded points, patching the
// returned record into the cached queue in place.
func (w *Writeups) Moderate(ctx context.Context, id int, status string, points int) (*models.Writeup, error) {
	payload := map[string]any{
		"status": status,
		"points": points,
	}
	var updated models.Writeup
	if err := w.api.Post(ctx, fmt.Sprintf("/admin/writeups/%d/moderate", id), payload, &updated); err != nil {
		w.log.Warn("failed to moderate write-up", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	w.mu.Lock()
	for i := range w.writeups {
		if w.writeups[i].ID == id {
			w.writeups[i] = updated
			break
		}
	}
	w.mu.Unlock()
	return &updated, nil
}

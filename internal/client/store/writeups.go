package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Writeups submits solve write-ups for moderation. The store keeps no
// state; the moderation queue is admin-only.
type Writeups struct {
	api *api.Client
	log *zap.Logger
}

// NewWriteups constructs the store.
func NewWriteups(apiClient *api.Client, log *zap.Logger) *Writeups {
	return &Writeups{api: apiClient, log: log}
}

// Submit sends a write-up for the given challenge and returns the created
// record, pending moderation.
func (w *Writeups) Submit(ctx context.Context, challengeID int, content string) (*models.Writeup, error) {
	payload := map[string]any{
		"challenge_id": challengeID,
		"content":      content,
	}
	var created models.Writeup
	if err := w.api.Post(ctx, "/writeups/", payload, &created); err != nil {
		w.log.Warn("write-up submission failed", zap.Int("challenge", challengeID), zap.Error(err))
		return nil, err
	}
	return &created, nil
}

package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Notifications mirrors the user's notification list. Fetch failures are a
// low-stakes read: the list is cleared and the error is not propagated, so
// the view simply shows an empty state.
type Notifications struct {
	api *api.Client
	log *zap.Logger

	mu            sync.Mutex
	notifications []models.Notification
}

// NewNotifications constructs the store.
func NewNotifications(apiClient *api.Client, log *zap.Logger) *Notifications {
	return &Notifications{api: apiClient, log: log}
}

// All returns the cached notifications.
func (n *Notifications) All() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notifications
}

// UnreadCount counts cached notifications not yet marked read.
func (n *Notifications) UnreadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, note := range n.notifications {
		if !note.IsRead {
			count++
		}
	}
	return count
}

// Fetch replaces the list wholesale, clearing it on failure.
func (n *Notifications) Fetch(ctx context.Context) {
	var list []models.Notification
	if _, err := n.api.Get(ctx, "/notifications/", nil, &list); err != nil {
		n.log.Error("failed to fetch notifications", zap.Error(err))
		list = nil
	}
	n.mu.Lock()
	n.notifications = list
	n.mu.Unlock()
}

// MarkAsRead marks one notification read and patches the returned record
// into the cached list in place; absent IDs are left alone.
func (n *Notifications) MarkAsRead(ctx context.Context, id int) error {
	var updated models.Notification
	if err := n.api.Post(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, &updated); err != nil {
		n.log.Warn("failed to mark notification read", zap.Int("id", id), zap.Error(err))
		return err
	}
	n.mu.Lock()
	for i := range n.notifications {
		if n.notifications[i].ID == id {
			n.notifications[i] = updated
			break
		}
	}
	n.mu.Unlock()
	return nil
}

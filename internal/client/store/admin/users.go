package admin

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Users manages platform accounts from the admin console. Accounts are
// created through registration, so there is no create here.
type Users struct {
	api *api.Client
	log *zap.Logger

	mu      sync.Mutex
	users   []models.User
	current *models.User
}

// NewUsers constructs the store.
func NewUsers(apiClient *api.Client, log *zap.Logger) *Users {
	return &Users{api: apiClient, log: log}
}

// All returns the cached list.
func (u *Users) All() []models.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.users
}

// Current returns the cached detail record, nil when none is loaded.
func (u *Users) Current() *models.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.current
}

// Fetch replaces the list wholesale.
func (u *Users) Fetch(ctx context.Context) error {
	var list []models.User
	if _, err := u.api.Get(ctx, "/admin/users/", nil, &list); err != nil {
		u.log.Error("failed to fetch users", zap.Error(err))
		return err
	}
	u.mu.Lock()
	u.users = list
	u.mu.Unlock()
	return nil
}

// FetchDetail loads one user, clearing the current record on error.
func (u *Users) FetchDetail(ctx context.Context, id int) error {
	var user models.User
	if _, err := u.api.Get(ctx, fmt.Sprintf("/admin/users/%d", id), nil, &user); err != nil {
		u.log.Error("failed to fetch user", zap.Int("id", id), zap.Error(err))
		u.mu.Lock()
		u.current = nil
		u.mu.Unlock()
		return err
	}
	u.mu.Lock()
	u.current = &user
	u.mu.Unlock()
	return nil
}

// UserUpdate carries the fields an admin may change on an account.
type UserUpdate struct {
	Email    *string `json:"email,omitempty"`
	Score    *int    `json:"score,omitempty"`
	IsStaff  *bool   `json:"is_staff,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	TeamID   *int    `json:"team_id,omitempty"`
}

// Update puts changes for a user and patches the cached list in place.
func (u *Users) Update(ctx context.Context, id int, data UserUpdate) (*models.User, error) {
	var updated models.User
	if err := u.api.Put(ctx, fmt.Sprintf("/admin/users/%d", id), data, &updated); err != nil {
		u.log.Warn("failed to update user", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	u.mu.Lock()
	for i := range u.users {
		if u.users[i].ID == id {
			u.users[i] = updated
			break
		}
	}
	u.mu.Unlock()
	return &updated, nil
}

// Delete removes an account and filters it out of the cached list.
func (u *Users) Delete(ctx context.Context, id int) error {
	if err := u.api.Delete(ctx, fmt.Sprintf("/admin/users/%d", id)); err != nil {
		u.log.Warn("failed to delete user", zap.Int("id", id), zap.Error(err))
		return err
	}
	u.mu.Lock()
	kept := u.users[:0]
	for _, user := range u.users {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	u.users = kept
	u.mu.Unlock()
	return nil
}

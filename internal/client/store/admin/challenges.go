// Package admin holds the stores backing the admin console. They follow
// the same mirror-and-patch pattern as the player stores but target the
// /admin prefix, which the server restricts to staff accounts.
package admin

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Challenges manages the full challenge set, including hidden ones.
type Challenges struct {
	api *api.Client
	log *zap.Logger

	mu         sync.Mutex
	challenges []models.Challenge
	current    *models.Challenge
}

// NewChallenges constructs the store.
func NewChallenges(apiClient *api.Client, log *zap.Logger) *Challenges {
	return &Challenges{api: apiClient, log: log}
}

// All returns the cached list.
func (c *Challenges) All() []models.Challenge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.challenges
}

// Current returns the cached detail record, nil when none is loaded.
func (c *Challenges) Current() *models.Challenge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Fetch replaces the list wholesale.
func (c *Challenges) Fetch(ctx context.Context) error {
	var list []models.Challenge
	if _, err := c.api.Get(ctx, "/admin/challenges/", nil, &list); err != nil {
		c.log.Error("failed to fetch admin challenges", zap.Error(err))
		return err
	}
	c.mu.Lock()
	c.challenges = list
	c.mu.Unlock()
	return nil
}

// FetchDetail loads one challenge, clearing the current record on error.
func (c *Challenges) FetchDetail(ctx context.Context, id int) error {
	var ch models.Challenge
	if _, err := c.api.Get(ctx, fmt.Sprintf("/admin/challenges/%d", id), nil, &ch); err != nil {
		c.log.Error("failed to fetch admin challenge", zap.Int("id", id), zap.Error(err))
		c.mu.Lock()
		c.current = nil
		c.mu.Unlock()
		return err
	}
	c.mu.Lock()
	c.current = &ch
	c.mu.Unlock()
	return nil
}

// Create posts a new challenge and appends the returned record.
func (c *Challenges) Create(ctx context.Context, data models.ChallengeUpsert) (*models.Challenge, error) {
	var created models.Challenge
	if err := c.api.Post(ctx, "/admin/challenges/", data, &created); err != nil {
		c.log.Warn("failed to create challenge", zap.Error(err))
		return nil, err
	}
	c.mu.Lock()
	c.challenges = append(c.challenges, created)
	c.mu.Unlock()
	return &created, nil
}

// Update puts new data for a challenge and replaces the matching cached
// element in place; when the ID is not cached the list is left unchanged.
func (c *Challenges) Update(ctx context.Context, id int, data models.ChallengeUpsert) (*models.Challenge, error) {
	var updated models.Challenge
	if err := c.api.Put(ctx, fmt.Sprintf("/admin/challenges/%d", id), data, &updated); err != nil {
		c.log.Warn("failed to update challenge", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	c.mu.Lock()
	for i := range c.challenges {
		if c.challenges[i].ID == id {
			c.challenges[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return &updated, nil
}

// Delete removes a challenge and filters it out of the cached list.
func (c *Challenges) Delete(ctx context.Context, id int) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/admin/challenges/%d", id)); err != nil {
		c.log.Warn("failed to delete challenge", zap.Int("id", id), zap.Error(err))
		return err
	}
	c.mu.Lock()
	kept := c.challenges[:0]
	for _, ch := range c.challenges {
		if ch.ID != id {
			kept = append(kept, ch)
		}
	}
	c.challenges = kept
	c.mu.Unlock()
	return nil
}

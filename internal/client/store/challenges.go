package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Challenges mirrors the visible challenge list and one current detail
// record.
type Challenges struct {
	api     *api.Client
	session ProfileRefresher
	log     *zap.Logger

	mu         sync.Mutex
	challenges []models.Challenge
	current    *models.Challenge
}

// NewChallenges constructs the store. session receives the best-effort
// profile refresh after an accepted flag.
func NewChallenges(apiClient *api.Client, session ProfileRefresher, log *zap.Logger) *Challenges {
	return &Challenges{api: apiClient, session: session, log: log}
}

// All returns the cached challenge list.
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

// Fetch replaces the challenge list wholesale from the server.
func (c *Challenges) Fetch(ctx context.Context) error {
	var list []models.Challenge
	if _, err := c.api.Get(ctx, "/challenges/", nil, &list); err != nil {
		c.log.Error("failed to fetch challenges", zap.Error(err))
		return err
	}
	c.mu.Lock()
	c.challenges = list
	c.mu.Unlock()
	return nil
}

// FetchDetail loads one challenge into the current record, clearing it on
// error.
func (c *Challenges) FetchDetail(ctx context.Context, id int) error {
	var ch models.Challenge
	if _, err := c.api.Get(ctx, fmt.Sprintf("/challenges/%d", id), nil, &ch); err != nil {
		c.log.Error("failed to fetch challenge", zap.Int("id", id), zap.Error(err))
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

// SubmitResult is the server's acknowledgment of an accepted flag.
type SubmitResult struct {
	Message string `json:"message"`
}

// SubmitFlag submits a flag for the challenge. On rejection the server's
// structured payload is returned unchanged and the current record is left
// as it was. On acceptance the store re-fetches the challenge to pick up
// the new solve status and asks the session for a profile refresh; the two
// follow-up calls are independent and neither is rolled back if the other
// fails.
func (c *Challenges) SubmitFlag(ctx context.Context, challengeID int, flag string) (*SubmitResult, error) {
	var res SubmitResult
	err := c.api.Post(ctx, fmt.Sprintf("/challenges/%d/submit", challengeID), map[string]string{"flag": flag}, &res)
	if err != nil {
		c.log.Warn("flag submission failed", zap.Int("challenge", challengeID), zap.Error(err))
		return nil, err
	}

	if err := c.FetchDetail(ctx, challengeID); err != nil {
		c.log.Warn("could not refresh challenge after solve", zap.Int("challenge", challengeID), zap.Error(err))
	}
	c.session.RefreshUserProfile(ctx)

	return &res, nil
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagforge/flagforge/internal/models"
)

func seeded(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	m.Seed()
	return m
}

func userID(t *testing.T, m *Memory, username string) int {
	t.Helper()
	for _, u := range m.Users() {
		if u.Username == username {
			return u.ID
		}
	}
	t.Fatalf("seed user %q missing", username)
	return 0
}

func TestSubmitFlag_DependencyGate(t *testing.T) {
	m := seeded(t)
	alice := userID(t, m, "alice")

	// Heap of Trouble (3) is locked until Warmup (1) is solved.
	_, err := m.SubmitFlag(alice, 3, "flag{uaf}")
	assert.ErrorIs(t, err, ErrLocked)

	_, err = m.SubmitFlag(alice, 1, "flag{hello}")
	require.NoError(t, err)

	teamID, err := m.SubmitFlag(alice, 3, "flag{uaf}")
	require.NoError(t, err)
	require.NotNil(t, teamID)

	// The lock is per user, not per team.
	bob := userID(t, m, "bob")
	_, err = m.SubmitFlag(bob, 3, "flag{uaf}")
	assert.ErrorIs(t, err, ErrLocked)
}

func TestSubmitFlag_Sentinels(t *testing.T) {
	m := seeded(t)
	alice := userID(t, m, "alice")

	_, err := m.SubmitFlag(alice, 1, "flag{nope}")
	assert.ErrorIs(t, err, ErrIncorrectFlag)

	_, err = m.SubmitFlag(alice, 4, "flag{finale}")
	assert.ErrorIs(t, err, ErrNotFound, "hidden challenges must look nonexistent")

	_, err = m.SubmitFlag(alice, 1, "flag{hello}")
	require.NoError(t, err)
	_, err = m.SubmitFlag(alice, 1, "flag{hello}")
	assert.ErrorIs(t, err, ErrAlreadySolved)
}

func TestLeaderboard_OrderAndRanks(t *testing.T) {
	m := seeded(t)
	carol := userID(t, m, "carol")

	// carol (bravo) scores first, then alice (alpha) overtakes on points.
	_, err := m.SubmitFlag(carol, 1, "flag{hello}")
	require.NoError(t, err)
	alice := userID(t, m, "alice")
	_, err = m.SubmitFlag(alice, 1, "flag{hello}")
	require.NoError(t, err)
	_, err = m.SubmitFlag(alice, 2, "flag{rot13}")
	require.NoError(t, err)

	board := m.Leaderboard()
	require.Len(t, board, 2)
	assert.Equal(t, "alpha", board[0].TeamName)
	assert.Equal(t, 150, board[0].TotalScore)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "bravo", board[1].TeamName)
	assert.Equal(t, 2, board[1].Rank)
}

func TestChallengeView_SolveCountAndLockFlag(t *testing.T) {
	m := seeded(t)
	alice := userID(t, m, "alice")
	bob := userID(t, m, "bob")

	_, err := m.SubmitFlag(alice, 1, "flag{hello}")
	require.NoError(t, err)

	chForAlice, err := m.Challenge(3, alice)
	require.NoError(t, err)
	assert.False(t, chForAlice.IsLocked)

	chForBob, err := m.Challenge(3, bob)
	require.NoError(t, err)
	assert.True(t, chForBob.IsLocked)

	warmup, err := m.Challenge(1, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, warmup.SolveCount)
}

func TestNotifications_PagingNewestFirst(t *testing.T) {
	m := seeded(t)
	alice := userID(t, m, "alice")
	m.Notify(alice, "first extra")
	m.Notify(alice, "second extra")

	page := m.NotificationsFor(alice, 0, 2)
	require.Len(t, page, 2)

	rest := m.NotificationsFor(alice, 2, 10)
	require.Len(t, rest, 1)
	assert.Equal(t, "Welcome to FlagForge Dev CTF!", rest[0].Message)

	assert.Nil(t, m.NotificationsFor(alice, 99, 10))
}

func TestModerateWriteup_ApprovalCreditsPoints(t *testing.T) {
	m := seeded(t)
	alice := userID(t, m, "alice")

	w, err := m.CreateWriteup(alice, 1, "solved it with grep")
	require.NoError(t, err)
	assert.Equal(t, models.WriteupPending, w.Status)

	admin := userID(t, m, "admin")
	moderated, err := m.ModerateWriteup(admin, w.ID, models.WriteupApproved, 25)
	require.NoError(t, err)
	assert.Equal(t, models.WriteupApproved, moderated.Status)

	profile, err := m.Profile(alice)
	require.NoError(t, err)
	assert.Equal(t, 25, profile.Score)

	_, err = m.ModerateWriteup(admin, 999, models.WriteupRejected, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticate_AuditsOutcomes(t *testing.T) {
	m := seeded(t)

	_, err := m.Authenticate("alice", "password")
	require.NoError(t, err)
	_, err = m.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	logs, total := m.Logs(0, 100)
	assert.Equal(t, len(logs), total)
	var ok, fail bool
	for _, l := range logs {
		switch l.Action {
		case "user_login_success":
			ok = true
		case "user_login_fail":
			fail = true
		}
	}
	assert.True(t, ok, "missing success audit entry")
	assert.True(t, fail, "missing failure audit entry")
}

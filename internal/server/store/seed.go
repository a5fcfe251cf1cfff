package store

import (
	"time"

	"github.com/flagforge/flagforge/internal/models"
)

// Seed loads deterministic development fixtures: two teams, three players,
// one admin, a handful of challenges (one hidden, one dependency-locked),
// and a welcome notification per player. Flags follow the flag{...}
// convention so they are easy to test by hand.
func (m *Memory) Seed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	end := now.Add(48 * time.Hour)
	m.settings = models.Settings{
		CTFName:          "FlagForge Dev CTF",
		StartTime:        &start,
		EndTime:          &end,
		RegistrationOpen: true,
	}

	webTag := &models.Tag{ID: m.nextTag, Name: "web"}
	m.nextTag++
	cryptoTag := &models.Tag{ID: m.nextTag, Name: "crypto"}
	m.nextTag++
	pwnTag := &models.Tag{ID: m.nextTag, Name: "pwn"}
	m.nextTag++
	for _, t := range []*models.Tag{webTag, cryptoTag, pwnTag} {
		m.tags[t.ID] = t
	}

	teamAlpha := &models.Team{ID: m.nextTeam, Name: "alpha"}
	m.nextTeam++
	teamBravo := &models.Team{ID: m.nextTeam, Name: "bravo"}
	m.nextTeam++
	m.teams[teamAlpha.ID] = teamAlpha
	m.teams[teamBravo.ID] = teamBravo

	seedUser := func(username, email, password string, staff bool, teamID *int) *models.User {
		u := &models.User{
			ID:       m.nextUser,
			Username: username,
			Email:    email,
			IsStaff:  staff,
			IsActive: true,
			TeamID:   teamID,
		}
		m.nextUser++
		m.users[u.ID] = u
		m.passwords[u.ID] = password
		return u
	}
	seedUser("alice", "alice@example.com", "password", false, &teamAlpha.ID)
	seedUser("bob", "bob@example.com", "password", false, &teamAlpha.ID)
	seedUser("carol", "carol@example.com", "password", false, &teamBravo.ID)
	seedUser("admin", "admin@example.com", "admin", true, nil)

	seedChallenge := func(name, desc string, points int, visible bool, flag string, tags ...models.Tag) *models.Challenge {
		ch := &models.Challenge{
			ID:          m.nextChallenge,
			Name:        name,
			Description: desc,
			Points:      points,
			IsVisible:   visible,
			Tags:        tags,
		}
		m.nextChallenge++
		m.challenges[ch.ID] = ch
		m.flags[ch.ID] = flag
		return ch
	}
	warmup := seedChallenge("Warmup", "Read the rules, find the flag.", 50, true, "flag{hello}", *webTag)
	seedChallenge("Caesar's Secret", "A classic cipher hides the flag.", 100, true, "flag{rot13}", *cryptoTag)
	heap := seedChallenge("Heap of Trouble", "Exploit the allocator.", 300, true, "flag{uaf}", *pwnTag)
	seedChallenge("Grand Finale", "Unreleased until the last day.", 500, false, "flag{finale}")

	// Heap of Trouble stays locked until Warmup is solved.
	m.deps[heap.ID] = []int{warmup.ID}

	for _, u := range m.users {
		if u.IsStaff {
			continue
		}
		m.notifications = append(m.notifications, models.Notification{
			ID:        m.nextNotification,
			UserID:    u.ID,
			Message:   "Welcome to FlagForge Dev CTF!",
			CreatedAt: now,
		})
		m.nextNotification++
	}

	m.audit("seed_loaded", nil, map[string]any{"users": len(m.users), "challenges": len(m.challenges)})
}

// Package store is the development server's in-memory state. It exists so
// the client shell works against a zero-setup local backend; it mimics the
// platform API's visible behavior (flag checking, locking, scoring, audit
// trail) over seeded fixtures and makes no attempt at durability.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flagforge/flagforge/internal/models"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrBadCredentials = errors.New("incorrect username or password")
	ErrInactive       = errors.New("inactive user")
	ErrLocked         = errors.New("challenge locked")
	ErrAlreadySolved  = errors.New("already solved")
	ErrIncorrectFlag  = errors.New("incorrect flag")
	ErrNoTeam         = errors.New("not on a team")
	ErrHasTeam        = errors.New("already on a team")
)

// Memory holds all server state behind one mutex.
type Memory struct {
	mu sync.Mutex

	users     map[int]*models.User
	passwords map[int]string
	tokens    map[string]int

	teams      map[int]*models.Team
	challenges map[int]*models.Challenge
	flags      map[int]string
	deps       map[int][]int
	tags       map[int]*models.Tag

	solves        []models.Solve
	notifications []models.Notification
	writeups      []models.Writeup
	logs          []models.AuditLog

	settings models.Settings

	nextUser, nextTeam, nextChallenge, nextTag        int
	nextSolve, nextNotification, nextWriteup, nextLog int
}

// NewMemory returns an empty store. Call Seed for the development fixtures.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[int]*models.User),
		passwords:  make(map[int]string),
		tokens:     make(map[string]int),
		teams:      make(map[int]*models.Team),
		challenges: make(map[int]*models.Challenge),
		flags:      make(map[int]string),
		deps:       make(map[int][]int),
		tags:       make(map[int]*models.Tag),
		settings: models.Settings{
			CTFName:          "FlagForge Dev CTF",
			RegistrationOpen: true,
		},
		nextUser: 1, nextTeam: 1, nextChallenge: 1, nextTag: 1,
		nextSolve: 1, nextNotification: 1, nextWriteup: 1, nextLog: 1,
	}
}

// Audit appends an entry to the audit trail.
func (m *Memory) Audit(action string, userID *int, details map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit(action, userID, details)
}

func (m *Memory) audit(action string, userID *int, details map[string]any) {
	m.logs = append(m.logs, models.AuditLog{
		ID:        m.nextLog,
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	})
	m.nextLog++
}

// --- accounts and tokens ---

// CreateUser registers an account. Dev accounts start active so no mail
// round-trip is needed.
func (m *Memory) CreateUser(info models.UserCreate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == info.Username || u.Email == info.Email {
			return nil, ErrConflict
		}
	}
	u := &models.User{
		ID:       m.nextUser,
		Username: info.Username,
		Email:    info.Email,
		IsActive: true,
	}
	m.nextUser++
	m.users[u.ID] = u
	m.passwords[u.ID] = info.Password
	m.audit("user_registered", &u.ID, map[string]any{"username": u.Username})
	out := *u
	return &out, nil
}

// Authenticate checks credentials and returns a fresh access token. Login
// outcomes are audited like the real backend's.
func (m *Memory) Authenticate(username, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.Username != username {
			continue
		}
		if m.passwords[id] != password {
			break
		}
		if !u.IsActive {
			m.audit("user_login_fail", &id, map[string]any{"username": username, "reason": "inactive"})
			return "", ErrInactive
		}
		token := uuid.NewString()
		m.tokens[token] = id
		m.audit("user_login_success", &id, nil)
		return token, nil
	}
	m.audit("user_login_fail", nil, map[string]any{"username": username})
	return "", ErrBadCredentials
}

// UserIDForToken resolves a bearer token.
func (m *Memory) UserIDForToken(token string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	return id, ok
}

// Profile returns the user with solves attached.
func (m *Memory) Profile(userID int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	out.Solves = m.solvesForUser(userID)
	return &out, nil
}

func (m *Memory) solvesForUser(userID int) []models.Solve {
	var out []models.Solve
	for _, s := range m.solves {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// IsStaff reports whether the user has admin privilege.
func (m *Memory) IsStaff(userID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	return ok && u.IsStaff
}

// --- challenges ---

func (m *Memory) challengeView(ch *models.Challenge, userID int) models.Challenge {
	out := *ch
	out.SolveCount = 0
	for _, s := range m.solves {
		if s.ChallengeID == ch.ID {
			out.SolveCount++
		}
	}
	out.IsLocked = m.locked(ch.ID, userID)
	return out
}

// locked reports whether any dependency of the challenge is unsolved by the
// user.
func (m *Memory) locked(challengeID, userID int) bool {
	for _, dep := range m.deps[challengeID] {
		solved := false
		for _, s := range m.solves {
			if s.UserID == userID && s.ChallengeID == dep {
				solved = true
				break
			}
		}
		if !solved {
			return true
		}
	}
	return false
}

// VisibleChallenges lists challenges players may see.
func (m *Memory) VisibleChallenges(userID int) []models.Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Challenge
	for _, ch := range m.challenges {
		if ch.IsVisible {
			out = append(out, m.challengeView(ch, userID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Challenge returns one visible challenge.
func (m *Memory) Challenge(id, userID int) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[id]
	if !ok || !ch.IsVisible {
		return nil, ErrNotFound
	}
	out := m.challengeView(ch, userID)
	return &out, nil
}

// SubmitFlag checks a submission, records the solve, and updates the score.
// It returns the solving user's team ID (nil when teamless) for the
// activity broadcast.
func (m *Memory) SubmitFlag(userID, challengeID int, flag string) (*int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[challengeID]
	if !ok || !ch.IsVisible {
		return nil, ErrNotFound
	}
	if m.locked(challengeID, userID) {
		return nil, ErrLocked
	}
	for _, s := range m.solves {
		if s.UserID == userID && s.ChallengeID == challengeID {
			return nil, ErrAlreadySolved
		}
	}
	if m.flags[challengeID] != flag {
		return nil, ErrIncorrectFlag
	}

	u := m.users[userID]
	m.solves = append(m.solves, models.Solve{
		ID:          m.nextSolve,
		UserID:      userID,
		ChallengeID: challengeID,
		TeamID:      u.TeamID,
		CreatedAt:   time.Now().UTC(),
	})
	m.nextSolve++
	u.Score += ch.Points
	m.audit("flag_accepted", &userID, map[string]any{"challenge_id": challengeID})
	return u.TeamID, nil
}

// Leaderboard ranks teams by total member score with the earliest last
// submission breaking ties.
func (m *Memory) Leaderboard() []models.LeaderboardEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	type row struct {
		entry models.LeaderboardEntry
	}
	rows := make(map[int]*row)
	for id, t := range m.teams {
		rows[id] = &row{entry: models.LeaderboardEntry{TeamID: id, TeamName: t.Name}}
	}
	for _, u := range m.users {
		if u.TeamID == nil {
			continue
		}
		if r, ok := rows[*u.TeamID]; ok {
			r.entry.TotalScore += u.Score
		}
	}
	for i := range m.solves {
		s := m.solves[i]
		if s.TeamID == nil {
			continue
		}
		if r, ok := rows[*s.TeamID]; ok {
			if r.entry.LastSubmission == nil || s.CreatedAt.After(*r.entry.LastSubmission) {
				t := s.CreatedAt
				r.entry.LastSubmission = &t
			}
		}
	}

	out := make([]models.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		li, lj := out[i].LastSubmission, out[j].LastSubmission
		switch {
		case li == nil:
			return true
		case lj == nil:
			return false
		default:
			return li.Before(*lj)
		}
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// --- teams ---

// Teams lists all teams with members.
func (m *Memory) Teams() []models.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, m.teamView(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) teamView(t *models.Team) models.Team {
	out := *t
	out.Members = nil
	for _, u := range m.users {
		if u.TeamID != nil && *u.TeamID == t.ID {
			member := *u
			out.Members = append(out.Members, member)
		}
	}
	sort.Slice(out.Members, func(i, j int) bool { return out.Members[i].ID < out.Members[j].ID })
	return out
}

// Team returns one team with members.
func (m *Memory) Team(id int) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.teamView(t)
	return &out, nil
}

// CreateTeam creates a team and places the creator on it.
func (m *Memory) CreateTeam(userID int, name string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	if u.TeamID != nil {
		return nil, ErrHasTeam
	}
	for _, t := range m.teams {
		if t.Name == name {
			return nil, ErrConflict
		}
	}
	t := &models.Team{ID: m.nextTeam, Name: name}
	m.nextTeam++
	m.teams[t.ID] = t
	u.TeamID = &t.ID
	m.audit("team_created", &userID, map[string]any{"team_id": t.ID, "name": name})
	out := m.teamView(t)
	return &out, nil
}

// JoinTeam places the user on an existing team.
func (m *Memory) JoinTeam(userID, teamID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[teamID]; !ok {
		return ErrNotFound
	}
	u := m.users[userID]
	if u.TeamID != nil {
		return ErrHasTeam
	}
	u.TeamID = &teamID
	m.audit("team_joined", &userID, map[string]any{"team_id": teamID})
	return nil
}

// LeaveTeam removes the user from their team.
func (m *Memory) LeaveTeam(userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	if u.TeamID == nil {
		return ErrNoTeam
	}
	teamID := *u.TeamID
	u.TeamID = nil
	m.audit("team_left", &userID, map[string]any{"team_id": teamID})
	return nil
}

// --- notifications ---

// NotificationsFor pages the user's notifications, newest first.
func (m *Memory) NotificationsFor(userID, skip, limit int) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= len(all) {
		return nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// Notify appends a notification for the user.
func (m *Memory) Notify(userID int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, models.Notification{
		ID:        m.nextNotification,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	m.nextNotification++
}

// MarkNotificationRead marks the user's notification read and returns it.
func (m *Memory) MarkNotificationRead(userID, id int) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		n := &m.notifications[i]
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			out := *n
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// --- settings ---

// PublicSettings returns the public subset of the settings record.
func (m *Memory) PublicSettings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.Settings{
		CTFName:          m.settings.CTFName,
		StartTime:        m.settings.StartTime,
		EndTime:          m.settings.EndTime,
		RegistrationOpen: m.settings.RegistrationOpen,
	}
}

// Settings returns the full record.
func (m *Memory) Settings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// UpdateSettings replaces the record.
func (m *Memory) UpdateSettings(adminID int, cfg models.Settings) models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = cfg
	m.audit("settings_updated", &adminID, nil)
	return m.settings
}

// --- write-ups ---

// CreateWriteup stores a pending write-up for a solved challenge.
func (m *Memory) CreateWriteup(userID, challengeID int, content string) (*models.Writeup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.challenges[challengeID]; !ok {
		return nil, ErrNotFound
	}
	w := models.Writeup{
		ID:          m.nextWriteup,
		UserID:      userID,
		ChallengeID: challengeID,
		Content:     content,
		Status:      models.WriteupPending,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextWriteup++
	m.writeups = append(m.writeups, w)
	return &w, nil
}

// Writeups returns the moderation queue.
func (m *Memory) Writeups() []models.Writeup {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Writeup, len(m.writeups))
	copy(out, m.writeups)
	return out
}

// ModerateWriteup sets status and points on a write-up, credits approved
// points to the author, and notifies them.
func (m *Memory) ModerateWriteup(adminID, id int, status string, points int) (*models.Writeup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.writeups {
		w := &m.writeups[i]
		if w.ID != id {
			continue
		}
		w.Status = status
		w.Points = points
		if status == models.WriteupApproved && points > 0 {
			if u, ok := m.users[w.UserID]; ok {
				u.Score += points
			}
		}
		m.audit("writeup_moderated", &adminID, map[string]any{"writeup_id": id, "status": status})
		out := *w
		return &out, nil
	}
	return nil, ErrNotFound
}

// --- admin: challenges, users, tags, logs ---

// AllChallenges lists every challenge, hidden ones included.
func (m *Memory) AllChallenges() []models.Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Challenge, 0, len(m.challenges))
	for _, ch := range m.challenges {
		out = append(out, m.challengeView(ch, 0))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AdminChallenge returns one challenge regardless of visibility.
func (m *Memory) AdminChallenge(id int) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.challengeView(ch, 0)
	return &out, nil
}

func (m *Memory) applyUpsert(ch *models.Challenge, data models.ChallengeUpsert) {
	ch.Name = data.Name
	ch.Description = data.Description
	ch.Points = data.Points
	ch.IsVisible = data.IsVisible
	ch.Tags = nil
	for _, tagID := range data.TagIDs {
		if tag, ok := m.tags[tagID]; ok {
			ch.Tags = append(ch.Tags, *tag)
		}
	}
	if data.Flag != "" {
		m.flags[ch.ID] = data.Flag
	}
}

// CreateChallenge adds a challenge.
func (m *Memory) CreateChallenge(adminID int, data models.ChallengeUpsert) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := &models.Challenge{ID: m.nextChallenge}
	m.nextChallenge++
	m.applyUpsert(ch, data)
	m.challenges[ch.ID] = ch
	m.audit("challenge_created", &adminID, map[string]any{"challenge_id": ch.ID})
	out := m.challengeView(ch, 0)
	return &out, nil
}

// UpdateChallenge replaces a challenge's fields.
func (m *Memory) UpdateChallenge(adminID, id int, data models.ChallengeUpsert) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.applyUpsert(ch, data)
	m.audit("challenge_updated", &adminID, map[string]any{"challenge_id": id})
	out := m.challengeView(ch, 0)
	return &out, nil
}

// DeleteChallenge removes a challenge and its flag.
func (m *Memory) DeleteChallenge(adminID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.challenges[id]; !ok {
		return ErrNotFound
	}
	delete(m.challenges, id)
	delete(m.flags, id)
	delete(m.deps, id)
	m.audit("challenge_deleted", &adminID, map[string]any{"challenge_id": id})
	return nil
}

// Users lists all accounts.
func (m *Memory) Users() []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// User returns one account.
func (m *Memory) User(id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	out.Solves = m.solvesForUser(id)
	return &out, nil
}

// UserPatch is the admin user update payload; nil fields are unchanged.
type UserPatch struct {
	Email    *string `json:"email"`
	Score    *int    `json:"score"`
	IsStaff  *bool   `json:"is_staff"`
	IsActive *bool   `json:"is_active"`
	TeamID   *int    `json:"team_id"`
}

// UpdateUser applies a patch to an account.
func (m *Memory) UpdateUser(adminID, id int, patch UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Score != nil {
		u.Score = *patch.Score
	}
	if patch.IsStaff != nil {
		u.IsStaff = *patch.IsStaff
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.TeamID != nil {
		u.TeamID = patch.TeamID
	}
	m.audit("user_updated", &adminID, map[string]any{"user_id": id})
	out := *u
	return &out, nil
}

// DeleteUser removes an account and its tokens.
func (m *Memory) DeleteUser(adminID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	delete(m.passwords, id)
	for token, uid := range m.tokens {
		if uid == id {
			delete(m.tokens, token)
		}
	}
	m.audit("user_deleted", &adminID, map[string]any{"user_id": id})
	return nil
}

// Tags lists all tags.
func (m *Memory) Tags() []models.Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateTag adds a tag.
func (m *Memory) CreateTag(adminID int, name string) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.Name == name {
			return nil, ErrConflict
		}
	}
	t := &models.Tag{ID: m.nextTag, Name: name}
	m.nextTag++
	m.tags[t.ID] = t
	m.audit("tag_created", &adminID, map[string]any{"tag_id": t.ID, "name": name})
	out := *t
	return &out, nil
}

// Logs pages the audit trail, newest first, and returns the total count.
func (m *Memory) Logs(skip, limit int) ([]models.AuditLog, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.logs)
	ordered := make([]models.AuditLog, total)
	for i, entry := range m.logs {
		ordered[total-1-i] = entry
	}
	if skip >= total {
		return nil, total
	}
	ordered = ordered[skip:]
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	return ordered, total
}

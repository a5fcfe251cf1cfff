// Package models defines the record shapes exchanged with the platform API.
// They are client-side mirrors of server records; the server is the source
// of truth and no cross-record integrity is enforced here.
package models

import "time"

// User represents a platform account as returned by /users/me and the admin
// user endpoints.
type User struct {
	// ID is the unique identifier for the user.
	ID int `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the registered email address.
	Email string `json:"email"`
	// Score is the user's current total score.
	Score int `json:"score"`
	// IsStaff marks accounts with access to the admin console.
	IsStaff bool `json:"is_staff"`
	// IsActive is false until the account's email is verified.
	IsActive bool `json:"is_active"`
	// TeamID is nil while the user has no team.
	TeamID *int `json:"team_id"`
	// Solves lists the user's accepted flag submissions, when the endpoint
	// includes them.
	Solves []Solve `json:"solves,omitempty"`
}

// UserCreate is the registration payload for POST /users/.
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Solve records one accepted flag submission.
type Solve struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ChallengeID int       `json:"challenge_id"`
	TeamID      *int      `json:"team_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Challenge is a task players solve by submitting its flag. The flag itself
// never appears in API responses; admin payloads carry it on writes only.
type Challenge struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	IsVisible   bool   `json:"is_visible"`
	// IsLocked is true while unsolved dependencies gate submission.
	IsLocked bool  `json:"is_locked"`
	Tags     []Tag `json:"tags,omitempty"`
	// SolveCount is the number of accepted solves.
	SolveCount int `json:"solve_count"`
}

// ChallengeUpsert is the admin create/update payload for a challenge.
type ChallengeUpsert struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Flag        string `json:"flag,omitempty"`
	IsVisible   bool   `json:"is_visible"`
	TagIDs      []int  `json:"tag_ids,omitempty"`
}

// Tag labels challenges by category.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Team groups users for scoring.
type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Members []User `json:"members,omitempty"`
}

// LeaderboardEntry is one row of the competition leaderboard.
type LeaderboardEntry struct {
	Rank           int        `json:"rank"`
	TeamID         int        `json:"team_id"`
	TeamName       string     `json:"team_name"`
	TotalScore     int        `json:"total_score"`
	LastSubmission *time.Time `json:"last_submission"`
}

// Notification is a per-user message pushed by the platform.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds the competition configuration. Public reads expose only the
// public fields; the admin endpoint returns and accepts the full record.
type Settings struct {
	CTFName          string     `json:"ctf_name"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	RegistrationOpen bool       `json:"registration_open"`
	// ScoreboardFrozen hides score movements near the end of the event.
	ScoreboardFrozen bool `json:"scoreboard_frozen,omitempty"`
}

// Writeup moderation states.
const (
	WriteupPending  = "pending"
	WriteupApproved = "approved"
	WriteupRejected = "rejected"
)

// Writeup is a narrative solve description submitted for moderation.
type Writeup struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ChallengeID int       `json:"challenge_id"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLog is one entry of the admin audit trail.
type AuditLog struct {
	ID        int            `json:"id"`
	UserID    *int           `json:"user_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TokenResponse is the body of a successful POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/models"
	"github.com/flagforge/flagforge/internal/server/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := store.NewMemory()
	mem.Seed()
	srv := httptest.NewServer(NewRouter(mem, NewHub(zap.NewNop()), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func obtainToken(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	resp, err := http.PostForm(srv.URL+"/api/token", form)
	if err != nil {
		t.Fatalf("token request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("token request for %q: status %d", username, resp.StatusCode)
	}
	var tok models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return tok.AccessToken
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp, string(raw)
}

func TestTokenFlow(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name         string
		username     string
		password     string
		expectedCode int
	}{
		{"valid credentials", "alice", "password", http.StatusOK},
		{"wrong password", "alice", "nope", http.StatusUnauthorized},
		{"unknown user", "mallory", "password", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("username", tt.username)
			form.Set("password", tt.password)
			resp, err := http.PostForm(srv.URL+"/api/token", form)
			if err != nil {
				t.Fatalf("token request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.expectedCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedCode)
			}
		})
	}
}

func TestRegisterThenLogin(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, srv, "POST", "/api/users/", "",
		`{"username":"dave","email":"dave@example.com","password":"hunter2"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, srv, "POST", "/api/users/", "",
		`{"username":"alice","email":"other@example.com","password":"x"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, body %s", resp.StatusCode, body)
	}

	token := obtainToken(t, srv, "dave", "hunter2")
	resp, body = doRequest(t, srv, "GET", "/api/users/me", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d, body %s", resp.StatusCode, body)
	}
	var me models.User
	if err := json.Unmarshal([]byte(body), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Username != "dave" {
		t.Errorf("username = %q, want dave", me.Username)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/users/me", "/api/challenges/", "/api/leaderboard/"} {
		resp, body := doRequest(t, srv, "GET", path, "", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d", path, resp.StatusCode)
		}
		if !strings.Contains(body, "Could not validate credentials") {
			t.Errorf("GET %s: body %s", path, body)
		}
	}
}

func TestSubmitFlag(t *testing.T) {
	srv := newTestServer(t)
	token := obtainToken(t, srv, "alice", "password")

	tests := []struct {
		name           string
		path           string
		body           string
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "incorrect flag",
			path:           "/api/challenges/1/submit",
			body:           `{"flag":"flag{wrong}"}`,
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Incorrect flag.",
		},
		{
			name:           "locked challenge",
			path:           "/api/challenges/3/submit",
			body:           `{"flag":"flag{uaf}"}`,
			expectedCode:   http.StatusForbidden,
			expectedSubstr: "Challenge is locked. Solve dependencies first.",
		},
		{
			name:           "correct flag",
			path:           "/api/challenges/1/submit",
			body:           `{"flag":"flag{hello}"}`,
			expectedCode:   http.StatusOK,
			expectedSubstr: "Correct flag!",
		},
		{
			name:           "duplicate solve",
			path:           "/api/challenges/1/submit",
			body:           `{"flag":"flag{hello}"}`,
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "You have already solved this challenge.",
		},
		{
			name:           "dependency now satisfied",
			path:           "/api/challenges/3/submit",
			body:           `{"flag":"flag{uaf}"}`,
			expectedCode:   http.StatusOK,
			expectedSubstr: "Correct flag!",
		},
		{
			name:           "hidden challenge",
			path:           "/api/challenges/4/submit",
			body:           `{"flag":"flag{finale}"}`,
			expectedCode:   http.StatusNotFound,
			expectedSubstr: "Not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, srv, "POST", tt.path, token, tt.body)
			if resp.StatusCode != tt.expectedCode {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.expectedCode, body)
			}
			if !strings.Contains(body, tt.expectedSubstr) {
				t.Errorf("body = %s, want substring %q", body, tt.expectedSubstr)
			}
		})
	}

	// The accepted solves show up on the profile and the leaderboard.
	_, body := doRequest(t, srv, "GET", "/api/users/me", token, "")
	var me models.User
	if err := json.Unmarshal([]byte(body), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Score != 350 {
		t.Errorf("score = %d, want 350", me.Score)
	}
	if len(me.Solves) != 2 {
		t.Errorf("solves = %d, want 2", len(me.Solves))
	}

	_, body = doRequest(t, srv, "GET", "/api/leaderboard/", token, "")
	var board []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(body), &board); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(board) == 0 || board[0].TeamName != "alpha" {
		t.Errorf("leaderboard = %+v, want alpha on top", board)
	}
}

func TestChallengeVisibility(t *testing.T) {
	srv := newTestServer(t)
	token := obtainToken(t, srv, "bob", "password")

	_, body := doRequest(t, srv, "GET", "/api/challenges/", token, "")
	var list []models.Challenge
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("decode challenges: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("visible challenges = %d, want 3", len(list))
	}
	for _, ch := range list {
		if ch.Name == "Grand Finale" {
			t.Error("hidden challenge leaked into the player list")
		}
		if ch.Name == "Heap of Trouble" && !ch.IsLocked {
			t.Error("dependency-locked challenge reported unlocked")
		}
	}

	resp, _ := doRequest(t, srv, "GET", "/api/challenges/4", token, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("hidden challenge detail: status %d, want 404", resp.StatusCode)
	}
}

func TestAdminGating(t *testing.T) {
	srv := newTestServer(t)
	player := obtainToken(t, srv, "carol", "password")
	admin := obtainToken(t, srv, "admin", "admin")

	resp, body := doRequest(t, srv, "GET", "/api/admin/users/", player, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("player on admin route: status %d", resp.StatusCode)
	}
	if !strings.Contains(body, "The user doesn't have enough privileges") {
		t.Errorf("body = %s", body)
	}

	resp, body = doRequest(t, srv, "GET", "/api/admin/users/", admin, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list users: status %d, body %s", resp.StatusCode, body)
	}
	var users []models.User
	if err := json.Unmarshal([]byte(body), &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 4 {
		t.Errorf("users = %d, want 4", len(users))
	}
}

func TestAdminChallengeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	admin := obtainToken(t, srv, "admin", "admin")

	resp, body := doRequest(t, srv, "POST", "/api/admin/challenges/", admin,
		`{"name":"Bonus Round","description":"late addition","points":150,"flag":"flag{bonus}","is_visible":true}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", resp.StatusCode, body)
	}
	var created models.Challenge
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	resp, body = doRequest(t, srv, "PUT", "/api/admin/challenges/"+strconv.Itoa(created.ID), admin,
		`{"name":"Bonus Round","description":"late addition","points":200,"is_visible":false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d, body %s", resp.StatusCode, body)
	}
	var updated models.Challenge
	if err := json.Unmarshal([]byte(body), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Points != 200 || updated.IsVisible {
		t.Errorf("updated = %+v", updated)
	}

	resp, _ = doRequest(t, srv, "DELETE", "/api/admin/challenges/"+strconv.Itoa(created.ID), admin, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, srv, "GET", "/api/admin/challenges/"+strconv.Itoa(created.ID), admin, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted: status %d, want 404", resp.StatusCode)
	}
}

func TestAdminLogsPagination(t *testing.T) {
	srv := newTestServer(t)
	admin := obtainToken(t, srv, "admin", "admin")

	resp, body := doRequest(t, srv, "GET", "/api/admin/logs/?skip=0&limit=2", admin, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logs: status %d, body %s", resp.StatusCode, body)
	}
	if resp.Header.Get("x-total-count") == "" {
		t.Error("x-total-count header missing")
	}
	var logs []models.AuditLog
	if err := json.Unmarshal([]byte(body), &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) > 2 {
		t.Errorf("page size = %d, want at most 2", len(logs))
	}
}

func TestTeamLifecycle(t *testing.T) {
	srv := newTestServer(t)

	_, _ = doRequest(t, srv, "POST", "/api/users/", "",
		`{"username":"erin","email":"erin@example.com","password":"hunter2"}`)
	token := obtainToken(t, srv, "erin", "hunter2")

	resp, body := doRequest(t, srv, "POST", "/api/teams/", token, `{"name":"charlie"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create team: status %d, body %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, srv, "POST", "/api/teams/1/join", token, "")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "You are already on a team.") {
		t.Fatalf("join while on team: status %d, body %s", resp.StatusCode, body)
	}

	resp, _ = doRequest(t, srv, "POST", "/api/teams/leave", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leave: status %d", resp.StatusCode)
	}

	resp, body = doRequest(t, srv, "POST", "/api/teams/leave", token, "")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "You are not on a team.") {
		t.Fatalf("leave without team: status %d, body %s", resp.StatusCode, body)
	}
}

func TestNotificationsReadFlow(t *testing.T) {
	srv := newTestServer(t)
	token := obtainToken(t, srv, "alice", "password")

	_, body := doRequest(t, srv, "GET", "/api/notifications/", token, "")
	var notes []models.Notification
	if err := json.Unmarshal([]byte(body), &notes); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notes) == 0 {
		t.Fatal("expected a seeded welcome notification")
	}
	if notes[0].IsRead {
		t.Fatal("seeded notification should start unread")
	}

	resp, body := doRequest(t, srv, "POST", "/api/notifications/"+strconv.Itoa(notes[0].ID)+"/read", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark read: status %d, body %s", resp.StatusCode, body)
	}
	var updated models.Notification
	if err := json.Unmarshal([]byte(body), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if !updated.IsRead {
		t.Error("notification not marked read")
	}
}

func TestPublicSettingsNeedNoToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, srv, "GET", "/api/settings/public", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public settings: status %d", resp.StatusCode)
	}
	var cfg models.Settings
	if err := json.Unmarshal([]byte(body), &cfg); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if cfg.CTFName == "" {
		t.Error("ctf_name missing from public settings")
	}
}

// Package creds owns the client's durable local state: the raw access token
// and the serialized user profile. Both live as files under a state
// directory, are written on every mutation, and are removed together on
// Clear so the on-disk view can never hold one without the other surviving
// a logout.
package creds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	tokenFile = "access_token"
	userFile  = "user.json"
)

// Store is the persisted credential state. It implements api.TokenSource.
type Store struct {
	mu    sync.Mutex
	dir   string
	token string
	user  json.RawMessage
}

// Open hydrates a Store from dir, creating the directory if needed. Missing
// files mean a logged-out state, not an error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	s := &Store{dir: dir}

	if b, err := os.ReadFile(filepath.Join(dir, tokenFile)); err == nil {
		s.token = string(b)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read token: %w", err)
	}

	if b, err := os.ReadFile(filepath.Join(dir, userFile)); err == nil {
		s.user = b
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read user: %w", err)
	}

	return s, nil
}

// Token returns the stored access token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the serialized profile, nil when none is stored.
func (s *Store) User() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetToken stores the token in memory and commits it to disk.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600)
}

// SetUser stores the serialized profile in memory and commits it to disk.
func (s *Store) SetUser(user json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	return os.WriteFile(filepath.Join(s.dir, userFile), user, 0o600)
}

// Clear drops both keys from memory and disk. Removal of a file that is
// already gone is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil

	var firstErr error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

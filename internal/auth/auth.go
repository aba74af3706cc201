// Package auth caches the API bearer token in a local session file.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eshaffer321/wealth-go/internal/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store holds the current session and persists it to disk
type Store struct {
	mu      sync.RWMutex
	session *types.Session
	logger  types.Logger
	now     func() time.Time
}

// NewStore creates a new session store
func NewStore(logger types.Logger) *Store {
	return &Store{
		logger: logger,
		now:    time.Now,
	}
}

// SetToken replaces the cached token, keeping the device id stable
func (s *Store) SetToken(token string, expiresAt time.Time) *types.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceUUID := ""
	if s.session != nil {
		deviceUUID = s.session.DeviceUUID
	}
	if deviceUUID == "" {
		deviceUUID = uuid.New().String()
	}

	s.session = &types.Session{
		Token:      token,
		ExpiresAt:  expiresAt,
		DeviceUUID: deviceUUID,
	}
	return s.session
}

// GetSession returns the current session
func (s *Store) GetSession() (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || s.session.Token == "" {
		return nil, types.ErrNotAuthenticated
	}
	return s.session, nil
}

// SetSession sets the current session
func (s *Store) SetSession(session *types.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}

// Clear forgets the cached session, e.g. after the API rejected the token
func (s *Store) Clear() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// SaveSession saves session to file
func (s *Store) SaveSession(path string) error {
	session, err := s.GetSession()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	// Token file stays private to the user
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}

	if s.logger != nil {
		s.logger.Info("Session saved", "path", path)
	}

	return nil
}

// LoadSession loads session from file
func (s *Store) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.ErrNotAuthenticated
		}
		return errors.Wrap(err, "failed to read session file")
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return errors.Wrap(err, "failed to unmarshal session")
	}

	if session.Token == "" {
		return types.ErrNotAuthenticated
	}

	if session.Expired(s.now()) {
		return types.ErrSessionExpired
	}

	s.SetSession(&session)

	if s.logger != nil {
		s.logger.Info("Session loaded", "path", path)
	}

	return nil
}

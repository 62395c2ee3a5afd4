// Package session remembers which household the local user is working in.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gastocerto/internal/uuid"
)

// HouseholdPrefix starts every generated household id.
const HouseholdPrefix = "familia"

var ErrNoHousehold = errors.New("no household selected")

// Session is the explicit household context passed to every ledger call.
type Session struct {
	HouseholdID string `yaml:"household_id"`
	UserID      string `yaml:"user_id,omitempty"`
}

// Active reports whether a household is selected.
func (s Session) Active() bool {
	return strings.TrimSpace(s.HouseholdID) != ""
}

// Require returns ErrNoHousehold when no household is selected.
func (s Session) Require() error {
	if !s.Active() {
		return ErrNoHousehold
	}
	return nil
}

// Owner returns the user id, or "anonymous".
func (s Session) Owner() string {
	if s.UserID == "" {
		return "anonymous"
	}
	return s.UserID
}

// NewHouseholdID generates an id such as "familia-1a2b3c4d".
func NewHouseholdID() string {
	return uuid.Short(HouseholdPrefix)
}

// Store persists a Session.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileStore keeps the session in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns ~/.gastocerto/session.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gastocerto-session.yaml"
	}
	return filepath.Join(home, ".gastocerto", "session.yaml")
}

// Load reads the session. A missing file yields an empty session.
func (s *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parsing session: %w", err)
	}
	sess.HouseholdID = strings.TrimSpace(sess.HouseholdID)
	return sess, nil
}

// Save writes the session, creating the parent directory when needed.
func (s *FileStore) Save(sess Session) error {
	sess.HouseholdID = strings.TrimSpace(sess.HouseholdID)
	if err := sess.Require(); err != nil {
		return err
	}

	data, err := yaml.Marshal(&sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear forgets the household. Clearing an absent session is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/logging"
)

// Document file names inside the data directory. These correspond to the
// ft_users / ft_licenses / ft_session storage keys of the original web app.
const (
	usersFile    = "users.json"
	licensesFile = "licenses.json"
	sessionFile  = "session.json"
)

// FileStore keeps each document as one JSON file in a data directory.
type FileStore struct {
	dir    string
	logger logging.Logger
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, logger logging.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger.With("module", "storage")}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readDocument unmarshals the named file into v. It reports false when the
// file is absent, unreadable, or not valid JSON; corruption is logged but
// never returned.
func (s *FileStore) readDocument(ctx context.Context, name string, v any) bool {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(ctx, "failed to read document", "file", name, "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn(ctx, "discarding corrupt document", "file", name, "error", err.Error())
		return false
	}
	return true
}

func (s *FileStore) writeDocument(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) ReadUsers(ctx context.Context) []models.User {
	var users []models.User
	if !s.readDocument(ctx, usersFile, &users) {
		return []models.User{}
	}
	if users == nil {
		return []models.User{}
	}
	return users
}

func (s *FileStore) SaveUsers(ctx context.Context, users []models.User) error {
	return s.writeDocument(usersFile, users)
}

func (s *FileStore) ReadLicenses(ctx context.Context) map[string][]models.License {
	var licenses map[string][]models.License
	if !s.readDocument(ctx, licensesFile, &licenses) {
		return map[string][]models.License{}
	}
	if licenses == nil {
		return map[string][]models.License{}
	}
	return licenses
}

func (s *FileStore) SaveLicenses(ctx context.Context, licenses map[string][]models.License) error {
	return s.writeDocument(licensesFile, licenses)
}

func (s *FileStore) GetSession(ctx context.Context) string {
	var session models.Session
	if !s.readDocument(ctx, sessionFile, &session) {
		return ""
	}
	return session.Username
}

func (s *FileStore) SetSession(ctx context.Context, user *models.User) error {
	if user == nil {
		err := os.Remove(s.path(sessionFile))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing session: %w", err)
		}
		return nil
	}
	return s.writeDocument(sessionFile, models.Session{Username: user.Username})
}

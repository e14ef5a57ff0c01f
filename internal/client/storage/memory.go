package storage

import (
	"context"

	"github.com/parallaxhq/parallax/internal/client/models"
)

// MemStore is an in-memory Store for tests and headless use. Data is copied
// on the way in and out so callers cannot mutate the stored state by aliasing.
type MemStore struct {
	users      []models.User
	licenses   map[string][]models.License
	session    string
	hasSession bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{licenses: map[string][]models.License{}}
}

func (s *MemStore) ReadUsers(_ context.Context) []models.User {
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *MemStore) SaveUsers(_ context.Context, users []models.User) error {
	s.users = make([]models.User, len(users))
	copy(s.users, users)
	return nil
}

func (s *MemStore) ReadLicenses(_ context.Context) map[string][]models.License {
	out := make(map[string][]models.License, len(s.licenses))
	for k, v := range s.licenses {
		entries := make([]models.License, len(v))
		copy(entries, v)
		out[k] = entries
	}
	return out
}

func (s *MemStore) SaveLicenses(_ context.Context, licenses map[string][]models.License) error {
	s.licenses = make(map[string][]models.License, len(licenses))
	for k, v := range licenses {
		entries := make([]models.License, len(v))
		copy(entries, v)
		s.licenses[k] = entries
	}
	return nil
}

func (s *MemStore) GetSession(_ context.Context) string {
	if !s.hasSession {
		return ""
	}
	return s.session
}

func (s *MemStore) SetSession(_ context.Context, user *models.User) error {
	if user == nil {
		s.session = ""
		s.hasSession = false
		return nil
	}
	s.session = user.Username
	s.hasSession = true
	return nil
}

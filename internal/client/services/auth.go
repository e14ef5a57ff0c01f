// Package services contains the application services of the local plate
// registry: account management and license management over a storage.Store.
//
// Services hold no UI state. The currently logged-in user is explicit: Login
// and RestoreSession return it, and license operations take it as an argument,
// so the whole flow can run headless in tests.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/client/storage"
	"github.com/parallaxhq/parallax/internal/common"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthService validates and processes registration, login, and session
// restoration against the user directory.
type AuthService struct {
	store storage.Store
}

// NewAuthService constructs an AuthService bound to the given store.
func NewAuthService(store storage.Store) *AuthService {
	return &AuthService{store: store}
}

// Register creates a new account. Both fields are trimmed before validation.
// The username must be at least 3 characters, the password at least 6, and the
// username must not already be taken (case-sensitive exact match). A
// successful registration does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	// Minimum lengths count characters, not bytes.
	if utf8.RuneCountInString(username) < minUsernameLen {
		return fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorUsernameTooShort)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorPasswordTooShort)
	}

	users := s.store.ReadUsers(ctx)
	for _, u := range users {
		if u.Username == username {
			return fmt.Errorf("username %q: %w", username, common.ErrorAlreadyExists)
		}
	}

	users = append(users, models.User{Username: username, Password: password})
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("saving user directory: %w", err)
	}
	return nil
}

// Login authenticates against the user directory. Both fields are trimmed
// first, matching the original form handling. On success the session is
// persisted and the matched user returned; the directory is never mutated.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	for _, u := range s.store.ReadUsers(ctx) {
		if u.Username == username && u.Password == password {
			user := u
			if err := s.store.SetSession(ctx, &user); err != nil {
				return nil, fmt.Errorf("persisting session: %w", err)
			}
			return &user, nil
		}
	}
	return nil, common.ErrorUnauthorized
}

// RestoreSession resolves the persisted session pointer against the user
// directory. When the referenced user no longer exists the stale session is
// cleared and (nil, nil) is returned: the caller simply stays logged out.
func (s *AuthService) RestoreSession(ctx context.Context) (*models.User, error) {
	username := s.store.GetSession(ctx)
	if username == "" {
		return nil, nil
	}

	for _, u := range s.store.ReadUsers(ctx) {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}

	if err := s.store.SetSession(ctx, nil); err != nil {
		return nil, fmt.Errorf("clearing stale session: %w", err)
	}
	return nil, nil
}

// Logout clears the persisted session pointer.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.SetSession(ctx, nil); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Package users declares the server-side repository contract for backend
// accounts.
package users

import (
	"context"

	"github.com/parallaxhq/parallax/internal/server/models"
)

// Repository defines persistence operations for users. Usernames are
// lowercased emails; implementations must return common.ErrorNotFound when a
// lookup misses.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByPhoneSignature looks up a user by the digit-only concatenation of
	// phone country code and number.
	GetByPhoneSignature(ctx context.Context, signature string) (*models.User, error)
}

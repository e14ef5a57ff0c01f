// Package storage persists the three documents of the local plate registry:
// the user directory, the per-user license directory, and the session pointer.
//
// Reads are fail-soft: missing or unparsable data yields empty defaults (or a
// nil session) and a diagnostic on the logger, never an error to the caller.
// Writes replace the whole document. There is no partial-write guarantee;
// a single process is assumed to own the store.
package storage

import (
	"context"

	"github.com/parallaxhq/parallax/internal/client/models"
)

// Store describes typed read/write access to the persisted documents.
// Implementations must honor the fail-soft read contract described in the
// package comment.
type Store interface {
	// ReadUsers returns the user directory, empty when absent or corrupt.
	ReadUsers(ctx context.Context) []models.User

	// SaveUsers overwrites the user directory.
	SaveUsers(ctx context.Context, users []models.User) error

	// ReadLicenses returns the license directory keyed by username,
	// empty when absent or corrupt.
	ReadLicenses(ctx context.Context) map[string][]models.License

	// SaveLicenses overwrites the license directory.
	SaveLicenses(ctx context.Context, licenses map[string][]models.License) error

	// GetSession returns the persisted session username, or "" when no
	// session exists or the stored value is corrupt.
	GetSession(ctx context.Context) string

	// SetSession persists the session for the given user. A nil user
	// removes the session record entirely instead of writing a null.
	SetSession(ctx context.Context, user *models.User) error
}

// Package vehicles declares the server-side repository contract for
// registered license plates.
package vehicles

import (
	"context"

	"github.com/parallaxhq/parallax/internal/server/models"
)

// Repository defines persistence operations for vehicles. License numbers are
// stored normalized (trimmed, uppercased); lookups by plate miss with
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	ListByOwner(ctx context.Context, username string) ([]models.Vehicle, error)
	ListAll(ctx context.Context) ([]models.Vehicle, error)
	FindByPlate(ctx context.Context, licenseNumber string) (*models.Vehicle, error)
	FindByOwnerAndPlate(ctx context.Context, username, licenseNumber string) (*models.Vehicle, error)

	// DeleteByOwnerAndPlate removes the owner's vehicle; DeleteByPlate removes
	// a vehicle regardless of owner (admin path). Both return
	// common.ErrorNotFound when nothing matched.
	DeleteByOwnerAndPlate(ctx context.Context, username, licenseNumber string) error
	DeleteByPlate(ctx context.Context, licenseNumber string) error

	SetBlacklisted(ctx context.Context, licenseNumber string, blacklisted bool) (*models.Vehicle, error)
	SetPhotoKey(ctx context.Context, licenseNumber, photoKey string) error
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/parallaxhq/parallax/internal/common"
	"github.com/parallaxhq/parallax/internal/dbx"
	"github.com/parallaxhq/parallax/internal/server/models"
	"github.com/parallaxhq/parallax/internal/server/repositories/repomanager"
)

// licensePattern is the accepted shape of a normalized plate: 1 to 7
// characters, uppercase letters, digits, and dashes.
var licensePattern = regexp.MustCompile(`^[A-Z0-9-]{1,7}$`)

// PlateStatus is the answer to a plate query.
type PlateStatus struct {
	Registered  bool
	Blacklisted bool
	Message     string
}

// VehicleService manages registered plates and the blacklist.
type VehicleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewVehicleService constructs a VehicleService. db may be nil when the
// in-memory repository manager is used.
func NewVehicleService(db *sql.DB, m repomanager.RepositoryManager) *VehicleService {
	return &VehicleService{db: db, repomanager: m}
}

// NormalizeLicense trims and uppercases a plate.
func NormalizeLicense(licenseNumber string) string {
	return strings.ToUpper(strings.TrimSpace(licenseNumber))
}

// ValidLicense reports whether the normalized plate has an accepted shape.
func ValidLicense(licenseNumber string) bool {
	return licensePattern.MatchString(NormalizeLicense(licenseNumber))
}

// Register stores a new plate for the user. Plates are globally unique.
func (s *VehicleService) Register(ctx context.Context, username, licenseNumber, vehicleMake, model, year string) (*models.Vehicle, error) {
	if !ValidLicense(licenseNumber) {
		return nil, fmt.Errorf("invalid license number: %w", common.ErrorValidation)
	}
	if strings.TrimSpace(vehicleMake) == "" || strings.TrimSpace(model) == "" || strings.TrimSpace(year) == "" {
		return nil, fmt.Errorf("vehicle details are required: %w", common.ErrorValidation)
	}

	normalized := NormalizeLicense(licenseNumber)
	repo := s.repomanager.Vehicles(s.dbtx())

	if _, err := repo.FindByPlate(ctx, normalized); err == nil {
		return nil, fmt.Errorf("plate %s: %w", normalized, common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking plate: %w", err)
	}

	vehicle := &models.Vehicle{
		Username:      strings.ToLower(username),
		LicenseNumber: normalized,
		Make:          strings.TrimSpace(vehicleMake),
		Model:         strings.TrimSpace(model),
		Year:          strings.TrimSpace(year),
	}

	vehicle, err := repo.Create(ctx, vehicle)
	if err != nil {
		return nil, fmt.Errorf("error creating vehicle: %w", err)
	}
	return vehicle, nil
}

// List returns the user's vehicles, newest first.
func (s *VehicleService) List(ctx context.Context, username string) ([]models.Vehicle, error) {
	return s.repomanager.Vehicles(s.dbtx()).ListByOwner(ctx, strings.ToLower(username))
}

// ListAllWithOwners returns every vehicle with its owner's contact details.
// Used by the administrator listing.
func (s *VehicleService) ListAllWithOwners(ctx context.Context) ([]models.VehicleWithOwner, error) {
	vehicleRepo := s.repomanager.Vehicles(s.dbtx())
	userRepo := s.repomanager.Users(s.dbtx())

	all, err := vehicleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.VehicleWithOwner, 0, len(all))
	for _, v := range all {
		entry := models.VehicleWithOwner{Vehicle: v}
		owner, err := userRepo.GetByUsername(ctx, v.Username)
		if err == nil {
			entry.OwnerEmail = owner.Email
			entry.OwnerPhoneCountry = owner.PhoneCountry
			entry.OwnerPhone = owner.Phone
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// Delete removes a registration. Administrators remove by plate globally;
// regular users can only delete their own vehicles.
func (s *VehicleService) Delete(ctx context.Context, username, licenseNumber string, admin bool) error {
	normalized := NormalizeLicense(licenseNumber)
	repo := s.repomanager.Vehicles(s.dbtx())

	if admin {
		return repo.DeleteByPlate(ctx, normalized)
	}
	return repo.DeleteByOwnerAndPlate(ctx, strings.ToLower(username), normalized)
}

// SetBlacklisted flips the blacklist flag on a plate.
func (s *VehicleService) SetBlacklisted(ctx context.Context, licenseNumber string, blacklisted bool) (*models.Vehicle, error) {
	return s.repomanager.Vehicles(s.dbtx()).SetBlacklisted(ctx, NormalizeLicense(licenseNumber), blacklisted)
}

// AttachPhoto records the object-storage key of a vehicle photo.
func (s *VehicleService) AttachPhoto(ctx context.Context, licenseNumber, photoKey string) error {
	return s.repomanager.Vehicles(s.dbtx()).SetPhotoKey(ctx, NormalizeLicense(licenseNumber), photoKey)
}

// Query reports whether a plate is registered and blacklisted. Unknown plates
// are not an error.
func (s *VehicleService) Query(ctx context.Context, licenseNumber string) (*PlateStatus, error) {
	normalized := NormalizeLicense(licenseNumber)
	if !ValidLicense(normalized) {
		return nil, fmt.Errorf("invalid license number: %w", common.ErrorValidation)
	}

	vehicle, err := s.repomanager.Vehicles(s.dbtx()).FindByPlate(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &PlateStatus{
				Message: fmt.Sprintf("Plate %s is not registered in Parallax.", normalized),
			}, nil
		}
		return nil, err
	}

	status := &PlateStatus{Registered: true, Blacklisted: vehicle.Blacklisted}
	if vehicle.Blacklisted {
		status.Message = fmt.Sprintf("Plate %s is registered and currently blacklisted.", normalized)
	} else {
		status.Message = fmt.Sprintf("Plate %s is registered and not blacklisted.", normalized)
	}
	return status, nil
}

func (s *VehicleService) dbtx() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

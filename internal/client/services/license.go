package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/client/storage"
	"github.com/parallaxhq/parallax/internal/common"
)

// nowFn is a test seam for timestamps.
var nowFn = time.Now

// LicenseService manages the per-user license directory.
type LicenseService struct {
	store storage.Store
}

// NewLicenseService constructs a LicenseService bound to the given store.
func NewLicenseService(store storage.Store) *LicenseService {
	return &LicenseService{store: store}
}

// NormalizePlate trims and uppercases a license number. Uniqueness checks run
// on the normalized form, so plates differing only in case are duplicates.
func NormalizePlate(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// Submit registers a plate for the user. The plate is normalized, the model
// trimmed, and the entry stamped with the current time. A plate already in
// the user's list is rejected with ErrorAlreadyExists.
func (s *LicenseService) Submit(ctx context.Context, user *models.User, licenseNumber, vehicleModel string) error {
	if user == nil {
		return common.ErrorNoActiveSession
	}

	licenseNumber = NormalizePlate(licenseNumber)
	vehicleModel = strings.TrimSpace(vehicleModel)

	licenses := s.store.ReadLicenses(ctx)
	userLicenses := licenses[user.Username]

	for _, l := range userLicenses {
		if l.LicenseNumber == licenseNumber {
			return fmt.Errorf("plate %s: %w", licenseNumber, common.ErrorAlreadyExists)
		}
	}

	entry := models.License{
		LicenseNumber: licenseNumber,
		VehicleModel:  vehicleModel,
		CreatedAt:     nowFn().UTC().Format(time.RFC3339),
	}

	licenses[user.Username] = append(userLicenses, entry)
	if err := s.store.SaveLicenses(ctx, licenses); err != nil {
		return fmt.Errorf("saving license directory: %w", err)
	}
	return nil
}

// Remove drops the entry with the exact normalized license number from the
// user's list. Removing a plate that is not there is not an error; the list
// is simply written back unchanged.
func (s *LicenseService) Remove(ctx context.Context, user *models.User, licenseNumber string) error {
	if user == nil {
		return common.ErrorNoActiveSession
	}

	licenseNumber = NormalizePlate(licenseNumber)

	licenses := s.store.ReadLicenses(ctx)
	userLicenses := licenses[user.Username]

	updated := userLicenses[:0:0]
	for _, l := range userLicenses {
		if l.LicenseNumber != licenseNumber {
			updated = append(updated, l)
		}
	}

	licenses[user.Username] = updated
	if err := s.store.SaveLicenses(ctx, licenses); err != nil {
		return fmt.Errorf("saving license directory: %w", err)
	}
	return nil
}

// List returns the user's licenses freshly read from the store, newest first.
// The sort is stable, so entries with equal timestamps keep insertion order.
func (s *LicenseService) List(ctx context.Context, user *models.User) ([]models.License, error) {
	if user == nil {
		return nil, common.ErrorNoActiveSession
	}

	entries := s.store.ReadLicenses(ctx)[user.Username]

	// Timestamps written by the original app may carry fractional seconds, so
	// entries are compared as parsed times, not strings. Unparsable values
	// fall back to a lexical compare.
	sort.SliceStable(entries, func(i, j int) bool {
		ti, errI := time.Parse(time.RFC3339, entries[i].CreatedAt)
		tj, errJ := time.Parse(time.RFC3339, entries[j].CreatedAt)
		if errI != nil || errJ != nil {
			return entries[i].CreatedAt > entries[j].CreatedAt
		}
		return ti.After(tj)
	})
	return entries, nil
}

package vehicles

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parallaxhq/parallax/internal/common"
	"github.com/parallaxhq/parallax/internal/server/models"
)

// MemoryRepository is an in-memory Repository for the demo mode and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	vehicles []models.Vehicle
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicle.ID == "" {
		vehicle.ID = uuid.NewString()
	}
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = time.Now()
	}
	r.vehicles = append(r.vehicles, *vehicle)
	return vehicle, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, username string) ([]models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Vehicle
	for _, v := range r.vehicles {
		if v.Username == username {
			out = append(out, v)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) FindByPlate(_ context.Context, licenseNumber string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vehicles {
		if v.LicenseNumber == licenseNumber {
			found := v
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) FindByOwnerAndPlate(_ context.Context, username, licenseNumber string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vehicles {
		if v.Username == username && v.LicenseNumber == licenseNumber {
			found := v
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) DeleteByOwnerAndPlate(_ context.Context, username, licenseNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.vehicles {
		if v.Username == username && v.LicenseNumber == licenseNumber {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) DeleteByPlate(_ context.Context, licenseNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.vehicles {
		if v.LicenseNumber == licenseNumber {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) SetBlacklisted(_ context.Context, licenseNumber string, blacklisted bool) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.vehicles {
		if r.vehicles[i].LicenseNumber == licenseNumber {
			r.vehicles[i].Blacklisted = blacklisted
			found := r.vehicles[i]
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) SetPhotoKey(_ context.Context, licenseNumber, photoKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.vehicles {
		if r.vehicles[i].LicenseNumber == licenseNumber {
			r.vehicles[i].PhotoKey = photoKey
			return nil
		}
	}
	return common.ErrorNotFound
}

func sortNewestFirst(vs []models.Vehicle) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].CreatedAt.After(vs[j].CreatedAt)
	})
}

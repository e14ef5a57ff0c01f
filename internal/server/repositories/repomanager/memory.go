package repomanager

import (
	"context"
	"database/sql"

	"github.com/parallaxhq/parallax/internal/dbx"
	"github.com/parallaxhq/parallax/internal/server/repositories/refreshtokens"
	"github.com/parallaxhq/parallax/internal/server/repositories/users"
	"github.com/parallaxhq/parallax/internal/server/repositories/vehicles"
)

// MemoryRepositoryManager vends in-memory repositories. The DBTX argument is
// ignored; all callers share the same state, which is reset on restart.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	vehicles      *vehicles.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
}

// NewMemoryRepositoryManager constructs an in-memory RepositoryManager.
func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		vehicles:      vehicles.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Vehicles(dbx.DBTX) vehicles.Repository {
	return m.vehicles
}

func (m *MemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

// RunMigrations is a no-op for the in-memory backend.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/parallaxhq/parallax/internal/dbx"
	"github.com/parallaxhq/parallax/internal/server/repositories/refreshtokens"
	"github.com/parallaxhq/parallax/internal/server/repositories/users"
	"github.com/parallaxhq/parallax/internal/server/repositories/vehicles"
)

// RepositoryManager vends repository implementations bound to a database
// handle. Services pass either the root *sql.DB or a transaction, so
// repository calls can participate in transactions without the repositories
// knowing about them.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Vehicles(db dbx.DBTX) vehicles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}

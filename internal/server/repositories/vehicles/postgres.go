package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parallaxhq/parallax/internal/common"
	"github.com/parallaxhq/parallax/internal/dbx"
	"github.com/parallaxhq/parallax/internal/server/models"
)

const vehicleColumns = `id, username, license_number, make, model, year, blacklisted, photo_key, created_at`

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {

	query :=
		`INSERT INTO vehicles (username, license_number, make, model, year, blacklisted)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		vehicle.Username, vehicle.LicenseNumber, vehicle.Make, vehicle.Model,
		vehicle.Year, vehicle.Blacklisted).Scan(&vehicle.ID, &vehicle.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vehicle, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, username string) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		 WHERE username = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectVehicles(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectVehicles(rows)
}

func (r *PostgresRepository) FindByPlate(ctx context.Context, licenseNumber string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		 WHERE license_number = $1
		 `

	return scanVehicle(r.db.QueryRowContext(ctx, query, licenseNumber))
}

func (r *PostgresRepository) FindByOwnerAndPlate(ctx context.Context, username, licenseNumber string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		 WHERE username = $1 AND license_number = $2
		 `

	return scanVehicle(r.db.QueryRowContext(ctx, query, username, licenseNumber))
}

func (r *PostgresRepository) DeleteByOwnerAndPlate(ctx context.Context, username, licenseNumber string) error {
	query := `DELETE FROM vehicles
		 WHERE username = $1 AND license_number = $2
		 `

	res, err := r.db.ExecContext(ctx, query, username, licenseNumber)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) DeleteByPlate(ctx context.Context, licenseNumber string) error {
	query := `DELETE FROM vehicles
		 WHERE license_number = $1
		 `

	res, err := r.db.ExecContext(ctx, query, licenseNumber)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) SetBlacklisted(ctx context.Context, licenseNumber string, blacklisted bool) (*models.Vehicle, error) {
	query := `UPDATE vehicles SET blacklisted = $2
		 WHERE license_number = $1
		 RETURNING ` + vehicleColumns + `
		 `

	return scanVehicle(r.db.QueryRowContext(ctx, query, licenseNumber, blacklisted))
}

func (r *PostgresRepository) SetPhotoKey(ctx context.Context, licenseNumber, photoKey string) error {
	query := `UPDATE vehicles SET photo_key = $2
		 WHERE license_number = $1
		 `

	res, err := r.db.ExecContext(ctx, query, licenseNumber, photoKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanVehicle(row *sql.Row) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	err := row.Scan(&v.ID, &v.Username, &v.LicenseNumber, &v.Make, &v.Model,
		&v.Year, &v.Blacklisted, &v.PhotoKey, &v.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func collectVehicles(rows *sql.Rows) ([]models.Vehicle, error) {
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Username, &v.LicenseNumber, &v.Make, &v.Model,
			&v.Year, &v.Blacklisted, &v.PhotoKey, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

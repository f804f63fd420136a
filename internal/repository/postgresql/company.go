package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT id, name, geofence_latitude, geofence_longitude, geofence_radius_meters,
			   entry_tolerance_minutes, exit_tolerance_minutes,
			   allow_outside_geofence, require_justification_outside_geofence,
			   created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var comp company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&comp.ID, &comp.Name, &comp.GeofenceLatitude, &comp.GeofenceLongitude, &comp.GeofenceRadiusMeters,
		&comp.EntryToleranceMinutes, &comp.ExitToleranceMinutes,
		&comp.AllowOutsideGeofence, &comp.RequireJustificationOutsideGeofence,
		&comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, fmt.Errorf("company with id %s: %w", id, company.ErrCompanyNotFound)
		}
		return company.Company{}, fmt.Errorf("failed to get company with id %s: %w", id, err)
	}

	schedules, err := listDailySchedules(ctx, q, schedule.SourceCompany, []string{comp.ID})
	if err != nil {
		return company.Company{}, err
	}
	comp.DefaultSchedules = schedules[comp.ID]

	return comp, nil
}

// ListIDs implements company.CompanyRepository.
func (c *companyRepositoryImpl) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `SELECT id FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect company ids: %w", err)
	}
	return ids, nil
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{
		db: db,
	}
}

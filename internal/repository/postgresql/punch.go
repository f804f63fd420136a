package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

const punchColumns = `
	id, employee_id, company_id, type, punched_at, punch_date,
	latitude, longitude, within_geofence, distance_meters,
	status, note, late_minutes, early_leave_minutes,
	created_at, updated_at`

func scanPunch(row pgx.Row) (punch.Punch, error) {
	var p punch.Punch
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.Type, &p.Timestamp, &p.Date,
		&p.Latitude, &p.Longitude, &p.WithinGeofence, &p.DistanceMeters,
		&p.Status, &p.Note, &p.LateMinutes, &p.EarlyLeaveMinutes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func collectPunches(rows pgx.Rows) ([]punch.Punch, error) {
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}
	return punches, nil
}

// Create implements punch.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return punch.Punch{}, fmt.Errorf("failed to generate punch id: %w", err)
		}
		p.ID = id.String()
	}

	query := `
		INSERT INTO punches (
			id, employee_id, company_id, type, punched_at, punch_date,
			latitude, longitude, within_geofence, distance_meters,
			status, note, late_minutes, early_leave_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID,
		p.EmployeeID,
		p.CompanyID,
		string(p.Type),
		p.Timestamp,
		utils.FormatDate(p.Date),
		p.Latitude,
		p.Longitude,
		p.WithinGeofence,
		p.DistanceMeters,
		string(p.Status),
		p.Note,
		p.LateMinutes,
		p.EarlyLeaveMinutes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "punches_employee_date_type_key") {
			return punch.Punch{}, fmt.Errorf("%s on %s: %w", p.Type, utils.FormatDate(p.Date), punch.ErrDuplicatePunchType)
		}
		return punch.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}

	return p, nil
}

// GetByID implements punch.PunchRepository.
func (r *punchRepository) GetByID(ctx context.Context, id string) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + punchColumns + ` FROM punches WHERE id = $1`

	p, err := scanPunch(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punch.Punch{}, fmt.Errorf("punch with id %s: %w", id, punch.ErrPunchNotFound)
		}
		return punch.Punch{}, fmt.Errorf("failed to get punch with id %s: %w", id, err)
	}

	return p, nil
}

// UpdateStatus implements punch.PunchRepository.
func (r *punchRepository) UpdateStatus(ctx context.Context, id string, status punch.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE punches SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status of punch %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("punch with id %s: %w", id, punch.ErrPunchNotFound)
	}

	return nil
}

// ListByEmployeeAndDate implements punch.PunchRepository.
func (r *punchRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE employee_id = $1
		  AND punch_date = $2::date
		ORDER BY punched_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, utils.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list punches of employee %s: %w", employeeID, err)
	}

	return collectPunches(rows)
}

// List implements punch.PunchRepository.
func (r *punchRepository) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	where := "employee_id = $1"
	args := []interface{}{filter.EmployeeID}
	argIdx := 2

	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND punch_date >= $%d::date", argIdx)
		args = append(args, utils.FormatDate(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND punch_date <= $%d::date", argIdx)
		args = append(args, utils.FormatDate(*filter.EndDate))
		argIdx++
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where += fmt.Sprintf(" AND status = ANY($%d)", argIdx)
		args = append(args, statuses)
	}

	query := `SELECT ` + punchColumns + ` FROM punches WHERE ` + where + ` ORDER BY punched_at ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches of employee %s: %w", filter.EmployeeID, err)
	}

	return collectPunches(rows)
}

// GetLastByEmployee implements punch.PunchRepository.
func (r *punchRepository) GetLastByEmployee(ctx context.Context, employeeID string) (*punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE employee_id = $1
		ORDER BY punched_at DESC
		LIMIT 1
	`

	p, err := scanPunch(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last punch of employee %s: %w", employeeID, err)
	}

	return &p, nil
}

// LockEmployeeDay implements punch.PunchRepository. The advisory lock is released when the
// surrounding transaction commits or rolls back, so it must be called inside one.
func (r *punchRepository) LockEmployeeDay(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	key := employeeID + "|" + utils.FormatDate(date)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock punches of employee %s: %w", employeeID, err)
	}
	return nil
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

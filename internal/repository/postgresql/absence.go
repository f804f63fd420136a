package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type absenceRepository struct {
	db *database.DB
}

const absenceColumns = `
	id, employee_id, company_id, absence_date, kind, reason,
	to_char(effective_start, 'HH24:MI'), to_char(effective_end, 'HH24:MI'),
	late_minutes, early_minutes, auto_detected,
	status, reviewed_by, reviewed_at, review_note,
	created_at, updated_at`

func scanAbsence(row pgx.Row) (absence.Absence, error) {
	var (
		a                            absence.Absence
		effectiveStart, effectiveEnd *string
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.Kind, &a.Reason,
		&effectiveStart, &effectiveEnd,
		&a.LateMinutes, &a.EarlyMinutes, &a.AutoDetected,
		&a.Status, &a.ReviewedBy, &a.ReviewedAt, &a.ReviewNote,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return absence.Absence{}, err
	}

	if a.EffectiveStart, err = parseOptionalTimeOfDay(effectiveStart); err != nil {
		return absence.Absence{}, err
	}
	if a.EffectiveEnd, err = parseOptionalTimeOfDay(effectiveEnd); err != nil {
		return absence.Absence{}, err
	}
	return a, nil
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepository) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return absence.Absence{}, fmt.Errorf("failed to generate absence id: %w", err)
		}
		a.ID = id.String()
	}

	query := `
		INSERT INTO absences (
			id, employee_id, company_id, absence_date, kind, reason,
			effective_start, effective_end, late_minutes, early_minutes,
			auto_detected, status
		) VALUES (
			$1, $2, $3, $4::date, $5, $6, $7::time, $8::time, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID,
		a.EmployeeID,
		a.CompanyID,
		utils.FormatDate(a.Date),
		string(a.Kind),
		a.Reason,
		formatOptionalTimeOfDay(a.EffectiveStart),
		formatOptionalTimeOfDay(a.EffectiveEnd),
		a.LateMinutes,
		a.EarlyMinutes,
		a.AutoDetected,
		string(a.Status),
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "absences_employee_date_key") {
			return absence.Absence{}, fmt.Errorf("employee %s on %s: %w", a.EmployeeID, utils.FormatDate(a.Date), absence.ErrAbsenceAlreadyExists)
		}
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}

	return a, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`

	a, err := scanAbsence(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, fmt.Errorf("absence with id %s: %w", id, absence.ErrAbsenceNotFound)
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence with id %s: %w", id, err)
	}

	return a, nil
}

// GetByEmployeeAndDate implements absence.AbsenceRepository.
func (r *absenceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE employee_id = $1 AND absence_date = $2::date`

	a, err := scanAbsence(q.QueryRow(ctx, query, employeeID, utils.FormatDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get absence of employee %s: %w", employeeID, err)
	}

	return &a, nil
}

// Update implements absence.AbsenceRepository.
func (r *absenceRepository) Update(ctx context.Context, a absence.Absence) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, string(a.Status), a.ReviewedBy, a.ReviewedAt, a.ReviewNote, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update absence %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("absence with id %s: %w", a.ID, absence.ErrAbsenceNotFound)
	}

	return nil
}

// Delete implements absence.AbsenceRepository.
func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("absence with id %s: %w", id, absence.ErrAbsenceNotFound)
	}

	return nil
}

// List implements absence.AbsenceRepository.
func (r *absenceRepository) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.CompanyID != nil {
		where += fmt.Sprintf(" AND company_id = $%d", argIdx)
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND absence_date >= $%d::date", argIdx)
		args = append(args, utils.FormatDate(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND absence_date <= $%d::date", argIdx)
		args = append(args, utils.FormatDate(*filter.EndDate))
	}

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE ` + where + ` ORDER BY absence_date ASC, created_at ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	var absences []absence.Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate absences: %w", err)
	}

	return absences, nil
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepository{db: db}
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type justificationRepository struct {
	db *database.DB
}

const justificationColumns = `
	id, punch_id, employee_id, company_id, category, reason,
	status, reviewed_by, reviewed_at, review_note,
	created_at, updated_at`

func scanJustification(row pgx.Row) (justification.Justification, error) {
	var j justification.Justification
	err := row.Scan(
		&j.ID, &j.PunchID, &j.EmployeeID, &j.CompanyID, &j.Category, &j.Reason,
		&j.Status, &j.ReviewedBy, &j.ReviewedAt, &j.ReviewNote,
		&j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

// Create implements justification.JustificationRepository.
func (r *justificationRepository) Create(ctx context.Context, j justification.Justification) (justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	if j.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return justification.Justification{}, fmt.Errorf("failed to generate justification id: %w", err)
		}
		j.ID = id.String()
	}

	query := `
		INSERT INTO justifications (
			id, punch_id, employee_id, company_id, category, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		j.ID,
		j.PunchID,
		j.EmployeeID,
		j.CompanyID,
		string(j.Category),
		j.Reason,
		string(j.Status),
	).Scan(&j.CreatedAt, &j.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "justifications_open_punch_key") {
			return justification.Justification{}, fmt.Errorf("punch %s: %w", j.PunchID, justification.ErrOpenJustificationExists)
		}
		return justification.Justification{}, fmt.Errorf("failed to create justification: %w", err)
	}

	return j, nil
}

// GetByID implements justification.JustificationRepository.
func (r *justificationRepository) GetByID(ctx context.Context, id string) (justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + justificationColumns + ` FROM justifications WHERE id = $1`

	j, err := scanJustification(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return justification.Justification{}, fmt.Errorf("justification with id %s: %w", id, justification.ErrJustificationNotFound)
		}
		return justification.Justification{}, fmt.Errorf("failed to get justification with id %s: %w", id, err)
	}

	return j, nil
}

// GetPendingByPunchID implements justification.JustificationRepository.
func (r *justificationRepository) GetPendingByPunchID(ctx context.Context, punchID string) (*justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + justificationColumns + ` FROM justifications WHERE punch_id = $1 AND status = $2`

	j, err := scanJustification(q.QueryRow(ctx, query, punchID, string(justification.StatusPending)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open justification of punch %s: %w", punchID, err)
	}

	return &j, nil
}

// Update implements justification.JustificationRepository.
func (r *justificationRepository) Update(ctx context.Context, j justification.Justification) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE justifications
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, string(j.Status), j.ReviewedBy, j.ReviewedAt, j.ReviewNote, j.ID)
	if err != nil {
		return fmt.Errorf("failed to update justification %s: %w", j.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("justification with id %s: %w", j.ID, justification.ErrJustificationNotFound)
	}

	return nil
}

// List implements justification.JustificationRepository.
func (r *justificationRepository) List(ctx context.Context, filter justification.JustificationFilter) ([]justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != nil {
		where += fmt.Sprintf(" AND company_id = $%d", argIdx)
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filter.Status))
	}

	query := `SELECT ` + justificationColumns + ` FROM justifications WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list justifications: %w", err)
	}
	defer rows.Close()

	var justifications []justification.Justification
	for rows.Next() {
		j, err := scanJustification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan justification: %w", err)
		}
		justifications = append(justifications, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate justifications: %w", err)
	}

	return justifications, nil
}

// CountByStatus implements justification.JustificationRepository.
func (r *justificationRepository) CountByStatus(ctx context.Context, companyID string) (justification.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'PENDING'),
			   COUNT(*) FILTER (WHERE status = 'APPROVED'),
			   COUNT(*) FILTER (WHERE status = 'REJECTED')
		FROM justifications
		WHERE company_id = $1
	`

	var stats justification.Stats
	if err := q.QueryRow(ctx, query, companyID).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected); err != nil {
		return justification.Stats{}, fmt.Errorf("failed to count justifications of company %s: %w", companyID, err)
	}

	return stats, nil
}

func NewJustificationRepository(db *database.DB) justification.JustificationRepository {
	return &justificationRepository{db: db}
}

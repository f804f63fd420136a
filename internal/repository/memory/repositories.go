package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
)

// ========================================
// COMPANIES & EMPLOYEES
// ========================================

type companyRepository struct {
	store *Store
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.companies[id]
	if !ok {
		return company.Company{}, fmt.Errorf("company with id %s: %w", id, company.ErrCompanyNotFound)
	}
	return c, nil
}

func (r *companyRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]string, 0, len(r.store.companies))
	for id := range r.store.companies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type employeeRepository struct {
	store *Store
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok || e.DeletedAt != nil {
		return employee.Employee{}, fmt.Errorf("employee with id %s: %w", id, employee.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var employees []employee.Employee
	for _, e := range r.store.employees {
		if e.CompanyID == companyID && e.DeletedAt == nil {
			employees = append(employees, e)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].FullName != employees[j].FullName {
			return employees[i].FullName < employees[j].FullName
		}
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

// ========================================
// PUNCHES
// ========================================

type punchRepository struct {
	store *Store
}

func (r *punchRepository) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.punches {
		if existing.EmployeeID == p.EmployeeID && dateKey(existing.Date) == dateKey(p.Date) && existing.Type == p.Type {
			return punch.Punch{}, fmt.Errorf("%s on %s: %w", p.Type, dateKey(p.Date), punch.ErrDuplicatePunchType)
		}
	}

	if p.ID == "" {
		p.ID = newID()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.store.punches[p.ID] = p
	return p, nil
}

func (r *punchRepository) GetByID(ctx context.Context, id string) (punch.Punch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.punches[id]
	if !ok {
		return punch.Punch{}, fmt.Errorf("punch with id %s: %w", id, punch.ErrPunchNotFound)
	}
	return p, nil
}

func (r *punchRepository) UpdateStatus(ctx context.Context, id string, status punch.Status) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.punches[id]
	if !ok {
		return fmt.Errorf("punch with id %s: %w", id, punch.ErrPunchNotFound)
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	r.store.punches[id] = p
	return nil
}

func (r *punchRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]punch.Punch, error) {
	return r.List(ctx, punch.PunchFilter{EmployeeID: employeeID, StartDate: &date, EndDate: &date})
}

func (r *punchRepository) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var punches []punch.Punch
	for _, p := range r.store.punches {
		if p.EmployeeID != filter.EmployeeID || !withinDates(p.Date, filter.StartDate, filter.EndDate) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, p.Status) {
			continue
		}
		punches = append(punches, p)
	}
	sort.Slice(punches, func(i, j int) bool {
		return punches[i].Timestamp.Before(punches[j].Timestamp)
	})
	return punches, nil
}

func (r *punchRepository) GetLastByEmployee(ctx context.Context, employeeID string) (*punch.Punch, error) {
	punches, err := r.List(ctx, punch.PunchFilter{EmployeeID: employeeID})
	if err != nil || len(punches) == 0 {
		return nil, err
	}
	last := punches[len(punches)-1]
	return &last, nil
}

// LockEmployeeDay is a no-op: units of work are already serialized by the store.
func (r *punchRepository) LockEmployeeDay(ctx context.Context, employeeID string, date time.Time) error {
	return nil
}

// ========================================
// ABSENCES
// ========================================

type absenceRepository struct {
	store *Store
}

func (r *absenceRepository) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.absences {
		if existing.EmployeeID == a.EmployeeID && dateKey(existing.Date) == dateKey(a.Date) {
			return absence.Absence{}, fmt.Errorf("employee %s on %s: %w", a.EmployeeID, dateKey(a.Date), absence.ErrAbsenceAlreadyExists)
		}
	}

	if a.ID == "" {
		a.ID = newID()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.store.absences[a.ID] = a
	return a, nil
}

func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.absences[id]
	if !ok {
		return absence.Absence{}, fmt.Errorf("absence with id %s: %w", id, absence.ErrAbsenceNotFound)
	}
	return a, nil
}

func (r *absenceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*absence.Absence, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.absences {
		if a.EmployeeID == employeeID && dateKey(a.Date) == dateKey(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *absenceRepository) Update(ctx context.Context, a absence.Absence) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.absences[a.ID]
	if !ok {
		return fmt.Errorf("absence with id %s: %w", a.ID, absence.ErrAbsenceNotFound)
	}
	existing.Status = a.Status
	existing.ReviewedBy = a.ReviewedBy
	existing.ReviewedAt = a.ReviewedAt
	existing.ReviewNote = a.ReviewNote
	existing.UpdatedAt = time.Now()
	r.store.absences[a.ID] = existing
	return nil
}

func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.absences[id]; !ok {
		return fmt.Errorf("absence with id %s: %w", id, absence.ErrAbsenceNotFound)
	}
	delete(r.store.absences, id)
	return nil
}

func (r *absenceRepository) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var absences []absence.Absence
	for _, a := range r.store.absences {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.CompanyID != nil && a.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if !withinDates(a.Date, filter.StartDate, filter.EndDate) {
			continue
		}
		absences = append(absences, a)
	}
	sort.Slice(absences, func(i, j int) bool {
		if !absences[i].Date.Equal(absences[j].Date) {
			return absences[i].Date.Before(absences[j].Date)
		}
		return absences[i].ID < absences[j].ID
	})
	return absences, nil
}

// ========================================
// JUSTIFICATIONS
// ========================================

type justificationRepository struct {
	store *Store
}

func (r *justificationRepository) Create(ctx context.Context, j justification.Justification) (justification.Justification, error) {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if j.Status == justification.StatusPending {
		for _, existing := range r.store.justifications {
			if existing.PunchID == j.PunchID && existing.IsPending() {
				return justification.Justification{}, fmt.Errorf("punch %s: %w", j.PunchID, justification.ErrOpenJustificationExists)
			}
		}
	}

	if j.ID == "" {
		j.ID = newID()
	}
	now := time.Now()
	j.CreatedAt, j.UpdatedAt = now, now
	r.store.justifications[j.ID] = j
	return j, nil
}

func (r *justificationRepository) GetByID(ctx context.Context, id string) (justification.Justification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	j, ok := r.store.justifications[id]
	if !ok {
		return justification.Justification{}, fmt.Errorf("justification with id %s: %w", id, justification.ErrJustificationNotFound)
	}
	return j, nil
}

func (r *justificationRepository) GetPendingByPunchID(ctx context.Context, punchID string) (*justification.Justification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, j := range r.store.justifications {
		if j.PunchID == punchID && j.IsPending() {
			found := j
			return &found, nil
		}
	}
	return nil, nil
}

func (r *justificationRepository) Update(ctx context.Context, j justification.Justification) error {
	defer r.store.lockWrite(ctx)()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.justifications[j.ID]
	if !ok {
		return fmt.Errorf("justification with id %s: %w", j.ID, justification.ErrJustificationNotFound)
	}
	existing.Status = j.Status
	existing.ReviewedBy = j.ReviewedBy
	existing.ReviewedAt = j.ReviewedAt
	existing.ReviewNote = j.ReviewNote
	existing.UpdatedAt = time.Now()
	r.store.justifications[j.ID] = existing
	return nil
}

func (r *justificationRepository) List(ctx context.Context, filter justification.JustificationFilter) ([]justification.Justification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var justifications []justification.Justification
	for _, j := range r.store.justifications {
		if filter.CompanyID != nil && j.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.EmployeeID != nil && j.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && j.Status != *filter.Status {
			continue
		}
		justifications = append(justifications, j)
	}
	sort.Slice(justifications, func(i, j int) bool {
		return justifications[i].ID > justifications[j].ID
	})
	return justifications, nil
}

func (r *justificationRepository) CountByStatus(ctx context.Context, companyID string) (justification.Stats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var stats justification.Stats
	for _, j := range r.store.justifications {
		if j.CompanyID != companyID {
			continue
		}
		stats.Total++
		switch j.Status {
		case justification.StatusPending:
			stats.Pending++
		case justification.StatusApproved:
			stats.Approved++
		case justification.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

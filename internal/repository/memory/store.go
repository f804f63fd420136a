// Package memory keeps every repository in process memory. It mirrors the uniqueness rules of the
// PostgreSQL schema and rolls back a failed unit of work, so services behave the same on top of it.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type Store struct {
	// writeMu serializes units of work and standalone writes.
	writeMu sync.Mutex
	mu      sync.RWMutex

	companies      map[string]company.Company
	employees      map[string]employee.Employee
	punches        map[string]punch.Punch
	absences       map[string]absence.Absence
	justifications map[string]justification.Justification
}

func NewStore() *Store {
	return &Store{
		companies:      make(map[string]company.Company),
		employees:      make(map[string]employee.Employee),
		punches:        make(map[string]punch.Punch),
		absences:       make(map[string]absence.Absence),
		justifications: make(map[string]justification.Justification),
	}
}

// PutCompany inserts or replaces a company.
func (s *Store) PutCompany(c company.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

// PutEmployee inserts or replaces an employee.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) Companies() company.CompanyRepository {
	return &companyRepository{store: s}
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{store: s}
}

func (s *Store) Punches() punch.PunchRepository {
	return &punchRepository{store: s}
}

func (s *Store) Absences() absence.AbsenceRepository {
	return &absenceRepository{store: s}
}

func (s *Store) Justifications() justification.JustificationRepository {
	return &justificationRepository{store: s}
}

func (s *Store) Transactor() database.Transactor {
	return &transactor{store: s}
}

type txContextKey struct{}

func inTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{}).(bool)
	return ok
}

// lockWrite takes the write lock unless ctx already holds it through a unit of work.
func (s *Store) lockWrite(ctx context.Context) func() {
	if inTransaction(ctx) {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

type snapshot struct {
	punches        map[string]punch.Punch
	absences       map[string]absence.Absence
	justifications map[string]justification.Justification
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		punches:        maps.Clone(s.punches),
		absences:       maps.Clone(s.absences),
		justifications: maps.Clone(s.justifications),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.punches = snap.punches
	s.absences = snap.absences
	s.justifications = snap.justifications
}

type transactor struct {
	store *Store
}

// WithinTransaction implements database.Transactor.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	t.store.writeMu.Lock()
	defer t.store.writeMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txContextKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func withinDates(date time.Time, start, end *time.Time) bool {
	key := dateKey(date)
	if start != nil && key < dateKey(*start) {
		return false
	}
	if end != nil && key > dateKey(*end) {
		return false
	}
	return true
}

package absence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	scheduleservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds how many employees one detection batch scans concurrently.
const DefaultWorkers = 4

type AbsenceServiceImpl struct {
	tx database.Transactor
	absence.AbsenceRepository
	punch.PunchRepository
	employee.EmployeeRepository
	company.CompanyRepository
	clock   clock.Clock
	workers int
}

// RegisterAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) RegisterAbsence(ctx context.Context, req absence.RegisterAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	date, err := utils.ParseDate(req.Date, s.clock.Location())
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	emp, err := s.employeeInScope(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	newAbsence := absence.Absence{
		EmployeeID:   emp.ID,
		CompanyID:    emp.CompanyID,
		Date:         date,
		Kind:         absence.Kind(req.Kind),
		Reason:       req.Reason,
		LateMinutes:  req.LateMinutes,
		EarlyMinutes: req.EarlyMinutes,
		Status:       absence.StatusPending,
	}
	if newAbsence.EffectiveStart, err = parseOptionalTimeOfDay(req.EffectiveStart); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if newAbsence.EffectiveEnd, err = parseOptionalTimeOfDay(req.EffectiveEnd); err != nil {
		return absence.AbsenceResponse{}, err
	}

	created, err := s.AbsenceRepository.Create(ctx, newAbsence)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	return toAbsenceResponse(created), nil
}

// GetAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) GetAbsence(ctx context.Context, id string, companyID string) (absence.AbsenceResponse, error) {
	a, err := s.absenceInScope(ctx, id, companyID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	return toAbsenceResponse(a), nil
}

// ListAbsences implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ListAbsences(ctx context.Context, req absence.ListAbsencesRequest) ([]absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := absence.AbsenceFilter{
		EmployeeID: req.EmployeeID,
		CompanyID:  req.CompanyID,
	}
	if req.Status != nil {
		status := absence.Status(*req.Status)
		filter.Status = &status
	}
	if req.StartDate != nil {
		start, err := utils.ParseDate(*req.StartDate, s.clock.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		filter.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := utils.ParseDate(*req.EndDate, s.clock.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		filter.EndDate = &end
	}

	absences, err := s.AbsenceRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]absence.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		responses = append(responses, toAbsenceResponse(a))
	}
	return responses, nil
}

// ApproveAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ApproveAbsence(ctx context.Context, req absence.ApproveAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}
	return s.review(ctx, req.ID, req.CompanyID, req.ApproverID, absence.StatusApproved, req.Note)
}

// RejectAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) RejectAbsence(ctx context.Context, req absence.RejectAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}
	return s.review(ctx, req.ID, req.CompanyID, req.ApproverID, absence.StatusRejected, &req.Reason)
}

func (s *AbsenceServiceImpl) review(ctx context.Context, id, companyID, approverID string, status absence.Status, note *string) (absence.AbsenceResponse, error) {
	var reviewed absence.Absence
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.absenceInScope(ctx, id, companyID)
		if err != nil {
			return err
		}
		if !a.IsPending() {
			return fmt.Errorf("absence %s is %s, expected %s: %w", a.ID, a.Status, absence.StatusPending, absence.ErrAbsenceAlreadyProcessed)
		}

		now := s.clock.Now()
		a.Status = status
		a.ReviewedBy = &approverID
		a.ReviewedAt = &now
		a.ReviewNote = note

		if err := s.AbsenceRepository.Update(ctx, a); err != nil {
			return err
		}
		reviewed = a
		return nil
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	slog.Info("absence reviewed", "absence_id", reviewed.ID, "status", reviewed.Status, "reviewed_by", approverID)
	return toAbsenceResponse(reviewed), nil
}

// DeleteAbsence implements absence.AbsenceService.
func (s *AbsenceServiceImpl) DeleteAbsence(ctx context.Context, id string, companyID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.absenceInScope(ctx, id, companyID)
		if err != nil {
			return err
		}
		if a.Status == absence.StatusApproved {
			return fmt.Errorf("absence %s: %w", a.ID, absence.ErrApprovedAbsenceLocked)
		}
		return s.AbsenceRepository.Delete(ctx, a.ID)
	})
}

// DetectAbsences implements absence.AbsenceService.
func (s *AbsenceServiceImpl) DetectAbsences(ctx context.Context, req absence.DetectAbsencesRequest) (absence.DetectionReport, error) {
	if err := req.Validate(); err != nil {
		return absence.DetectionReport{}, err
	}

	date, err := utils.ParseDate(req.Date, s.clock.Location())
	if err != nil {
		return absence.DetectionReport{}, fmt.Errorf("invalid date: %w", err)
	}
	return s.detectRange(ctx, req.CompanyID, date, date)
}

// DetectAbsencesRange implements absence.AbsenceService.
func (s *AbsenceServiceImpl) DetectAbsencesRange(ctx context.Context, req absence.DetectAbsencesRangeRequest) (absence.DetectionReport, error) {
	if err := req.Validate(); err != nil {
		return absence.DetectionReport{}, err
	}

	start, err := utils.ParseDate(req.StartDate, s.clock.Location())
	if err != nil {
		return absence.DetectionReport{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := utils.ParseDate(req.EndDate, s.clock.Location())
	if err != nil {
		return absence.DetectionReport{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return s.detectRange(ctx, req.CompanyID, start, end)
}

// DetectForEmployee implements absence.AbsenceService.
func (s *AbsenceServiceImpl) DetectForEmployee(ctx context.Context, employeeID string, date string) (*absence.AbsenceResponse, error) {
	day, err := utils.ParseDate(date, s.clock.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	comp, err := s.CompanyRepository.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return nil, err
	}

	resolver := scheduleservice.NewResolver(scheduleservice.SnapshotOf(emp, comp))
	created, err := s.detectDay(ctx, emp, resolver, day, utils.DateOf(s.clock.Now()))
	if err != nil || created == nil {
		return nil, err
	}

	response := toAbsenceResponse(*created)
	return &response, nil
}

// employeeOutcome collects what one employee's days produced, in date order.
type employeeOutcome struct {
	created  []absence.Absence
	skipped  int
	failures []absence.DetectionFailure
}

// detectRange scans employees concurrently and each employee's days in order. A failing day is
// recorded in the report and never stops the batch.
func (s *AbsenceServiceImpl) detectRange(ctx context.Context, companyID string, start, end time.Time) (absence.DetectionReport, error) {
	comp, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return absence.DetectionReport{}, err
	}
	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, comp.ID)
	if err != nil {
		return absence.DetectionReport{}, fmt.Errorf("failed to list employees of company %s: %w", comp.ID, err)
	}

	today := utils.DateOf(s.clock.Now())
	outcomes := make([]employeeOutcome, len(employees))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			resolver := scheduleservice.NewResolver(scheduleservice.SnapshotOf(emp, comp))
			outcome := &outcomes[i]

			_ = utils.EachDate(start, end, func(date time.Time) error {
				created, err := s.detectDay(ctx, emp, resolver, date, today)
				switch {
				case err != nil:
					slog.Error("absence detection failed",
						"company_id", comp.ID,
						"employee_id", emp.ID,
						"date", utils.FormatDate(date),
						"error", err,
					)
					outcome.failures = append(outcome.failures, absence.DetectionFailure{
						EmployeeID: emp.ID,
						Date:       utils.FormatDate(date),
						Error:      err.Error(),
					})
				case created == nil:
					outcome.skipped++
				default:
					outcome.created = append(outcome.created, *created)
				}
				return nil
			})
			return nil
		})
	}
	_ = g.Wait()

	report := absence.DetectionReport{
		CompanyID: comp.ID,
		StartDate: utils.FormatDate(start),
		EndDate:   utils.FormatDate(end),
		Created:   []absence.AbsenceResponse{},
		Failures:  []absence.DetectionFailure{},
	}
	for _, outcome := range outcomes {
		for _, a := range outcome.created {
			report.Created = append(report.Created, toAbsenceResponse(a))
		}
		report.Skipped += outcome.skipped
		report.Failures = append(report.Failures, outcome.failures...)
	}

	slog.Info("absence detection finished",
		"company_id", report.CompanyID,
		"start_date", report.StartDate,
		"end_date", report.EndDate,
		"employees", len(employees),
		"created", len(report.Created),
		"skipped", report.Skipped,
		"failed", len(report.Failures),
	)

	return report, nil
}

// detectDay creates the absence one past working day calls for. It returns nil without error
// whenever the day is skipped, which makes repeated runs harmless.
func (s *AbsenceServiceImpl) detectDay(ctx context.Context, emp employee.Employee, resolver *scheduleservice.Resolver, date, today time.Time) (*absence.Absence, error) {
	dateStr := utils.FormatDate(date)

	// Today is still in progress.
	if dateStr >= utils.FormatDate(today) {
		return nil, nil
	}
	if emp.BaselineDate == nil {
		slog.Warn("skipping absence detection, baseline date not configured", "employee_id", emp.ID, "date", dateStr)
		return nil, nil
	}
	if dateStr < utils.FormatDate(*emp.BaselineDate) {
		return nil, nil
	}

	daySchedule, ok := resolver.Resolve(date)
	if !ok {
		return nil, nil
	}

	existing, err := s.AbsenceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing absence: %w", err)
	}
	if existing != nil {
		return nil, nil
	}

	recorded, err := s.PunchRepository.ListByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}

	detection, ok := Classify(recorded, daySchedule)
	if !ok {
		return nil, nil
	}

	created, err := s.AbsenceRepository.Create(ctx, absence.Absence{
		EmployeeID:   emp.ID,
		CompanyID:    emp.CompanyID,
		Date:         date,
		Kind:         detection.Kind,
		Reason:       detection.Reason,
		LateMinutes:  detection.LateMinutes,
		EarlyMinutes: detection.EarlyMinutes,
		AutoDetected: true,
		Status:       absence.StatusPending,
	})
	if err != nil {
		// A concurrent run got there first.
		if errors.Is(err, absence.ErrAbsenceAlreadyExists) {
			return nil, nil
		}
		return nil, err
	}

	slog.Debug("absence detected", "employee_id", emp.ID, "date", dateStr, "kind", created.Kind)
	return &created, nil
}

// employeeInScope hides employees of other companies. An empty companyID skips the check.
func (s *AbsenceServiceImpl) employeeInScope(ctx context.Context, employeeID, companyID string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if companyID != "" && emp.CompanyID != companyID {
		return employee.Employee{}, fmt.Errorf("employee with id %s: %w", employeeID, employee.ErrEmployeeNotFound)
	}
	return emp, nil
}

func (s *AbsenceServiceImpl) absenceInScope(ctx context.Context, id, companyID string) (absence.Absence, error) {
	a, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		return absence.Absence{}, err
	}
	if companyID != "" && a.CompanyID != companyID {
		return absence.Absence{}, fmt.Errorf("absence with id %s: %w", id, absence.ErrAbsenceNotFound)
	}
	return a, nil
}

func parseOptionalTimeOfDay(value *string) (*schedule.TimeOfDay, error) {
	if value == nil {
		return nil, nil
	}
	t, err := schedule.ParseTimeOfDay(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptionalTimeOfDay(t *schedule.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toAbsenceResponse(a absence.Absence) absence.AbsenceResponse {
	return absence.AbsenceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		CompanyID:      a.CompanyID,
		Date:           utils.FormatDate(a.Date),
		Kind:           string(a.Kind),
		Reason:         a.Reason,
		EffectiveStart: formatOptionalTimeOfDay(a.EffectiveStart),
		EffectiveEnd:   formatOptionalTimeOfDay(a.EffectiveEnd),
		LateMinutes:    a.LateMinutes,
		EarlyMinutes:   a.EarlyMinutes,
		AutoDetected:   a.AutoDetected,
		Status:         string(a.Status),
		ReviewedBy:     a.ReviewedBy,
		ReviewedAt:     formatOptionalTime(a.ReviewedAt),
		ReviewNote:     a.ReviewNote,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func NewAbsenceService(
	tx database.Transactor,
	absenceRepo absence.AbsenceRepository,
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	clk clock.Clock,
	workers int,
) absence.AbsenceService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &AbsenceServiceImpl{
		tx:                 tx,
		AbsenceRepository:  absenceRepo,
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		CompanyRepository:  companyRepo,
		clock:              clk,
		workers:            workers,
	}
}

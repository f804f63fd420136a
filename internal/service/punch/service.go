package punch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	scheduleservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
)

type PunchServiceImpl struct {
	tx database.Transactor
	punch.PunchRepository
	absence.AbsenceRepository
	employee.EmployeeRepository
	company.CompanyRepository
	locker lock.Locker
	clock  clock.Clock
}

// RegisterPunch implements punch.PunchService.
func (s *PunchServiceImpl) RegisterPunch(ctx context.Context, req punch.RegisterPunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}
	punchType := punch.Type(req.Type)

	now := s.clock.Now()
	date := utils.DateOf(now)
	dateStr := utils.FormatDate(date)

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	comp, err := s.CompanyRepository.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	resolver := scheduleservice.NewResolver(scheduleservice.SnapshotOf(emp, comp))
	daySchedule, ok := resolver.Resolve(date)
	if !ok {
		return punch.PunchResponse{}, fmt.Errorf("%w: %s (%s)", schedule.ErrNoSchedule, dateStr, date.Weekday())
	}

	// Policy rejection happens before anything is locked or written.
	geofence, err := evaluateGeofence(comp, req.Latitude, req.Longitude)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	held, err := s.locker.Obtain(ctx, lock.PunchDayKey(emp.ID, dateStr))
	if err != nil {
		return punch.PunchResponse{}, err
	}
	defer func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release punch lock", "employee_id", emp.ID, "date", dateStr, "error", err)
		}
	}()

	var created punch.Punch
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.PunchRepository.LockEmployeeDay(ctx, emp.ID, date); err != nil {
			return err
		}

		dayAbsence, err := s.AbsenceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("failed to check absence of %s: %w", dateStr, err)
		}
		if dayAbsence != nil && dayAbsence.Status == absence.StatusApproved && dayAbsence.Kind.IsFullDay() {
			return fmt.Errorf("%w: %s (%s)", punch.ErrDayMarkedAbsent, dateStr, dayAbsence.Kind)
		}

		recorded, err := s.PunchRepository.ListByEmployeeAndDate(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("failed to list punches of %s: %w", dateStr, err)
		}
		if err := ValidateNext(punchType, recorded); err != nil {
			return err
		}

		newPunch := punch.Punch{
			EmployeeID:     emp.ID,
			CompanyID:      emp.CompanyID,
			Type:           punchType,
			Timestamp:      now,
			Date:           date,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			WithinGeofence: geofence.Within,
			DistanceMeters: geofence.Distance,
			Status:         geofence.Status,
			Note:           req.Note,
		}
		newPunch.LateMinutes, newPunch.EarlyLeaveMinutes = scheduleDeviation(punchType, now, daySchedule, comp)

		created, err = s.PunchRepository.Create(ctx, newPunch)
		return err
	})
	if err != nil {
		return punch.PunchResponse{}, err
	}

	slog.Info("punch registered",
		"employee_id", created.EmployeeID,
		"type", created.Type,
		"status", created.Status,
		"within_geofence", created.WithinGeofence,
	)

	return toPunchResponse(created), nil
}

// scheduleDeviation measures how late an IN or how early an OUT is against the scheduled time.
// Deviations inside the company tolerance are not reported.
func scheduleDeviation(punchType punch.Type, at time.Time, daySchedule schedule.DailySchedule, comp company.Company) (late *int, early *int) {
	switch punchType {
	case punch.TypeIn:
		scheduledIn := daySchedule.StartTime.On(at)
		limit := scheduledIn.Add(time.Duration(comp.EntryToleranceMinutes) * time.Minute)
		if at.After(limit) {
			minutes := int(math.Floor(at.Sub(scheduledIn).Minutes()))
			late = &minutes
		}
	case punch.TypeOut:
		scheduledOut := daySchedule.EndTime.On(at)
		limit := scheduledOut.Add(-time.Duration(comp.ExitToleranceMinutes) * time.Minute)
		if at.Before(limit) {
			minutes := int(math.Floor(scheduledOut.Sub(at).Minutes()))
			early = &minutes
		}
	}
	return late, early
}

// ListPunches implements punch.PunchService.
func (s *PunchServiceImpl) ListPunches(ctx context.Context, req punch.ListPunchesRequest) ([]punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.CompanyID != "" {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return nil, err
		}
		if emp.CompanyID != req.CompanyID {
			return nil, fmt.Errorf("employee with id %s: %w", req.EmployeeID, employee.ErrEmployeeNotFound)
		}
	}

	filter := punch.PunchFilter{EmployeeID: req.EmployeeID}
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

	punches, err := s.PunchRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]punch.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, toPunchResponse(p))
	}
	return responses, nil
}

// GetLastPunch implements punch.PunchService.
func (s *PunchServiceImpl) GetLastPunch(ctx context.Context, employeeID string) (*punch.PunchResponse, error) {
	last, err := s.PunchRepository.GetLastByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}

	response := toPunchResponse(*last)
	return &response, nil
}

// GetPunchesForDay implements punch.PunchService.
func (s *PunchServiceImpl) GetPunchesForDay(ctx context.Context, employeeID string, date string) (punch.DayPunchesResponse, error) {
	day, err := utils.ParseDate(date, s.clock.Location())
	if err != nil {
		return punch.DayPunchesResponse{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	recorded, err := s.PunchRepository.ListByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return punch.DayPunchesResponse{}, err
	}

	response := punch.DayPunchesResponse{
		EmployeeID: employeeID,
		Date:       utils.FormatDate(day),
		Punches:    make([]punch.PunchResponse, 0, len(recorded)),
	}
	for _, p := range recorded {
		response.Punches = append(response.Punches, toPunchResponse(p))
	}

	if next, ok := NextType(recorded); ok {
		nextType := string(next)
		response.NextType = &nextType
	} else {
		response.Complete = true
	}

	return response, nil
}

func toPunchResponse(p punch.Punch) punch.PunchResponse {
	return punch.PunchResponse{
		ID:                p.ID,
		EmployeeID:        p.EmployeeID,
		Type:              string(p.Type),
		Timestamp:         p.Timestamp.Format(time.RFC3339),
		Date:              utils.FormatDate(p.Date),
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		WithinGeofence:    p.WithinGeofence,
		DistanceMeters:    p.DistanceMeters,
		Status:            string(p.Status),
		Note:              p.Note,
		LateMinutes:       p.LateMinutes,
		EarlyLeaveMinutes: p.EarlyLeaveMinutes,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func NewPunchService(
	tx database.Transactor,
	punchRepo punch.PunchRepository,
	absenceRepo absence.AbsenceRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	locker lock.Locker,
	clk clock.Clock,
) punch.PunchService {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &PunchServiceImpl{
		tx:                 tx,
		PunchRepository:    punchRepo,
		AbsenceRepository:  absenceRepo,
		EmployeeRepository: employeeRepo,
		CompanyRepository:  companyRepo,
		locker:             locker,
		clock:              clk,
	}
}

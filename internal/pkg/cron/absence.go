package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

type AbsenceJobs struct {
	companyRepo    company.CompanyRepository
	absenceService absence.AbsenceService
	clock          clock.Clock
}

func NewAbsenceJobs(companyRepo company.CompanyRepository, absenceService absence.AbsenceService, clk clock.Clock) *AbsenceJobs {
	return &AbsenceJobs{
		companyRepo:    companyRepo,
		absenceService: absenceService,
		clock:          clk,
	}
}

func (j *AbsenceJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("detect_previous_day_absences", spec, 30*time.Minute, j.DetectPreviousDay)
}

// DetectPreviousDay runs absence detection for yesterday in every company. A failing company does not
// stop the others; their errors are returned joined.
func (j *AbsenceJobs) DetectPreviousDay(ctx context.Context) error {
	yesterday := utils.FormatDate(utils.DateOf(j.clock.Now()).AddDate(0, 0, -1))

	companyIDs, err := j.companyRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	slog.Info("Cron: Starting absence detection", "date", yesterday, "companies", len(companyIDs))

	var errs []error
	created, failed := 0, 0
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		report, err := j.absenceService.DetectAbsences(ctx, absence.DetectAbsencesRequest{
			CompanyID: companyID,
			Date:      yesterday,
		})
		if err != nil {
			slog.Error("Cron: absence detection failed", "company_id", companyID, "date", yesterday, "error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		created += len(report.Created)
		failed += len(report.Failures)
	}

	slog.Info("Cron: Absence detection finished", "date", yesterday, "created", created, "failed", failed)
	return errors.Join(errs...)
}

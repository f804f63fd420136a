// Package app wires repositories and services for the binaries under cmd.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/postgresql"
	absenceService "github.com/cmlabs-hris/timebank-backend-go/internal/service/absence"
	justificationService "github.com/cmlabs-hris/timebank-backend-go/internal/service/justification"
	punchService "github.com/cmlabs-hris/timebank-backend-go/internal/service/punch"
	timeBankService "github.com/cmlabs-hris/timebank-backend-go/internal/service/timebank"
	"github.com/redis/go-redis/v9"
)

type Services struct {
	Companies     company.CompanyRepository
	Punch         punch.PunchService
	TimeBank      timebank.TimeBankService
	Absence       absence.AbsenceService
	Justification justification.JustificationService
}

// NewServices builds every service on the PostgreSQL repositories.
func NewServices(db *database.DB, locker lock.Locker, clk clock.Clock, workers int) *Services {
	tx := postgresql.NewTransactor(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	justificationRepo := postgresql.NewJustificationRepository(db)

	return &Services{
		Companies:     companyRepo,
		Punch:         punchService.NewPunchService(tx, punchRepo, absenceRepo, employeeRepo, companyRepo, locker, clk),
		TimeBank:      timeBankService.NewTimeBankService(punchRepo, absenceRepo, employeeRepo, companyRepo, clk),
		Absence:       absenceService.NewAbsenceService(tx, absenceRepo, punchRepo, employeeRepo, companyRepo, clk, workers),
		Justification: justificationService.NewJustificationService(tx, justificationRepo, punchRepo, clk),
	}
}

// NewLocker connects to Redis when REDIS_ADDR is set and falls back to a noop locker otherwise.
// The returned close function is never nil.
func NewLocker(ctx context.Context, cfg config.RedisConfig) (lock.Locker, func() error, error) {
	if cfg.Addr == "" {
		slog.Info("Redis not configured, punch registration relies on database locking only")
		return lock.NoopLocker{}, func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	slog.Info("Redis punch lock enabled", "addr", cfg.Addr, "ttl", cfg.LockTTL)
	return lock.NewRedisLocker(rdb, cfg.LockTTL), rdb.Close, nil
}

// NewClock returns the wall clock in the configured time zone.
func NewClock(cfg *config.Config) (clock.Clock, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return clock.New(loc), nil
}

// SetupLogger installs a JSON slog handler as the default logger.
func SetupLogger(cfg *config.Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
}

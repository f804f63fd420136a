package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/app"
	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/lock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "attendancectl",
		Short:         "Operate the attendance reconciliation engine from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newDetectAbsencesCmd(), newTimeBankCmd(), newTokenCmd())
	return cmd
}

// withServices loads the configuration and opens the database for the duration of fn.
func withServices(ctx context.Context, fn func(*config.Config, *app.Services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	app.SetupLogger(cfg)

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	clk, err := app.NewClock(cfg)
	if err != nil {
		return err
	}

	// Detection never registers punches, so the Redis lock is not needed here.
	return fn(cfg, app.NewServices(db, lock.NoopLocker{}, clk, cfg.Detection.Workers))
}

func newDetectAbsencesCmd() *cobra.Command {
	var companyID, date, startDate, endDate string

	cmd := &cobra.Command{
		Use:   "detect-absences",
		Short: "Detect absences for one past date or a past date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (date == "") == (startDate == "" && endDate == "") {
				return errors.New("use either --date or --start and --end")
			}

			return withServices(cmd.Context(), func(cfg *config.Config, services *app.Services) error {
				companyIDs := []string{companyID}
				if companyID == "" {
					ids, err := services.Companies.ListIDs(cmd.Context())
					if err != nil {
						return err
					}
					companyIDs = ids
				}

				reports := make([]absence.DetectionReport, 0, len(companyIDs))
				for _, id := range companyIDs {
					var (
						report absence.DetectionReport
						err    error
					)
					if date != "" {
						report, err = services.Absence.DetectAbsences(cmd.Context(), absence.DetectAbsencesRequest{CompanyID: id, Date: date})
					} else {
						report, err = services.Absence.DetectAbsencesRange(cmd.Context(), absence.DetectAbsencesRangeRequest{CompanyID: id, StartDate: startDate, EndDate: endDate})
					}
					if err != nil {
						return fmt.Errorf("company %s: %w", id, err)
					}
					reports = append(reports, report)
				}
				return printJSON(cmd.OutOrStdout(), reports)
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company id (default: every company)")
	cmd.Flags().StringVar(&date, "date", "", "Single date YYYY-MM-DD")
	cmd.Flags().StringVar(&startDate, "start", "", "First date YYYY-MM-DD of a range")
	cmd.Flags().StringVar(&endDate, "end", "", "Last date YYYY-MM-DD of a range")
	return cmd
}

func newTimeBankCmd() *cobra.Command {
	var (
		employeeID         string
		month, year        int
		startDate, endDate string
	)

	cmd := &cobra.Command{
		Use:   "time-bank",
		Short: "Print an employee's time-bank balance for a month or a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(cfg *config.Config, services *app.Services) error {
				var (
					result timebank.TimeBankResponse
					err    error
				)
				if startDate != "" || endDate != "" {
					result, err = services.TimeBank.ComputeTimeBankRange(cmd.Context(), timebank.TimeBankRangeRequest{
						EmployeeID: employeeID,
						StartDate:  startDate,
						EndDate:    endDate,
					})
				} else {
					result, err = services.TimeBank.ComputeTimeBank(cmd.Context(), timebank.TimeBankRequest{
						EmployeeID: employeeID,
						Month:      month,
						Year:       year,
					})
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	now := time.Now()
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee id")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Month 1-12")
	cmd.Flags().IntVar(&year, "year", now.Year(), "Year")
	cmd.Flags().StringVar(&startDate, "start", "", "First date YYYY-MM-DD of a range")
	cmd.Flags().StringVar(&endDate, "end", "", "Last date YYYY-MM-DD of a range")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}

// newTokenCmd mints access tokens for local development; production tokens come from the account service.
func newTokenCmd() *cobra.Command {
	var (
		secret, userID, employeeID, companyID, role string
		ttl                                         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				_ = godotenv.Load()
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}

			r := user.Role(role)
			if _, ok := user.RolePermissions[r]; !ok {
				return fmt.Errorf("unknown role %q", role)
			}

			claims := jwt.AccessClaims{UserID: userID, Role: r}
			if employeeID != "" {
				claims.EmployeeID = &employeeID
			}
			if companyID != "" {
				claims.CompanyID = &companyID
			}

			token, expiresAt, err := jwt.NewJWTService(secret).GenerateAccessToken(claims, ttl)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"access_token": token,
				"expires_at":   time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
			})
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (default: JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee id")
	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	cmd.Flags().StringVar(&role, "role", string(user.RoleEmployee), "Role: owner, manager or employee")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

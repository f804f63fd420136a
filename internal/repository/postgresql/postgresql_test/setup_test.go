package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testDB stays nil when TEST_DATABASE_URL is unset; every test then skips.
var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect to test database:", err)
		os.Exit(1)
	}
	if err := applyMigrations(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "failed to apply migrations:", err)
		db.Close()
		os.Exit(1)
	}

	testDB = db
	code := m.Run()
	db.Close()
	os.Exit(code)
}

func applyMigrations(ctx context.Context, db *database.DB) error {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")

	paths, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		sql, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// requireDB skips the test without a database and empties every table otherwise.
func requireDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	_, err := testDB.Exec(context.Background(),
		`TRUNCATE TABLE justifications, absences, punches, daily_schedules, employees, companies CASCADE`)
	require.NoError(t, err)
	return testDB
}

type seed struct {
	CompanyID  string
	EmployeeID string
}

// seedCompany inserts a company centred on (0,0) with a 100m geofence and Monday to Friday
// 08:00-17:00 schedules with a lunch break, plus one employee with a 2024-01-01 baseline.
func seedCompany(t *testing.T, db *database.DB) seed {
	t.Helper()
	ctx := context.Background()
	s := seed{CompanyID: uuid.NewString(), EmployeeID: uuid.NewString()}

	_, err := db.Exec(ctx, `
		INSERT INTO companies (id, name, geofence_latitude, geofence_longitude, geofence_radius_meters,
			entry_tolerance_minutes, exit_tolerance_minutes, allow_outside_geofence, require_justification_outside_geofence)
		VALUES ($1, 'Acme', 0, 0, 100, 10, 10, TRUE, TRUE)`, s.CompanyID)
	require.NoError(t, err)

	for weekday := 1; weekday <= 5; weekday++ {
		_, err = db.Exec(ctx, `
			INSERT INTO daily_schedules (source, owner_id, weekday, active, start_time, end_time, has_break, break_start, break_end)
			VALUES ('company', $1, $2, TRUE, '08:00', '17:00', TRUE, '12:00', '13:00')`, s.CompanyID, weekday)
		require.NoError(t, err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, company_id, full_name, baseline_date)
		VALUES ($1, $2, 'Ada Lovelace', '2024-01-01')`, s.EmployeeID, s.CompanyID)
	require.NoError(t, err)

	return s
}

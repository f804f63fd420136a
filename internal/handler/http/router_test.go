package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timebank-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/memory"
	absenceservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/absence"
	justificationservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/justification"
	punchservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/punch"
	timebankservice "github.com/cmlabs-hris/timebank-backend-go/internal/service/timebank"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int `json:"total_items"`
	} `json:"meta"`
}

type apiFixture struct {
	router     *chi.Mux
	clock      *clock.FixedClock
	jwtService jwt.Service
}

// The clock stands on Tuesday 2024-01-02 08:00; both employees have a Monday 2024-01-01 baseline.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := memory.NewStore()
	store.PutCompany(fixtures.Company("company-1"))
	store.PutEmployee(fixtures.Employee("emp-1", "company-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	store.PutEmployee(fixtures.Employee("emp-2", "company-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	clk := clock.Fixed(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
	jwtService := jwt.NewJWTService(testSecret)

	handlers := Handlers{
		Punch: NewPunchHandler(
			punchservice.NewPunchService(store.Transactor(), store.Punches(), store.Absences(), store.Employees(), store.Companies(), nil, clk),
			clk,
		),
		TimeBank: NewTimeBankHandler(
			timebankservice.NewTimeBankService(store.Punches(), store.Absences(), store.Employees(), store.Companies(), clk),
			clk,
		),
		Absence: NewAbsenceHandler(
			absenceservice.NewAbsenceService(store.Transactor(), store.Absences(), store.Punches(), store.Employees(), store.Companies(), clk, 2),
		),
		Justification: NewJustificationHandler(
			justificationservice.NewJustificationService(store.Transactor(), store.Justifications(), store.Punches(), clk),
		),
	}

	app := config.AppConfig{Name: "timebank-test", Env: "test", AllowedOrigins: []string{"http://localhost:3000"}}
	return &apiFixture{
		router:     NewRouter(app, jwtService, handlers),
		clock:      clk,
		jwtService: jwtService,
	}
}

func (f *apiFixture) token(t *testing.T, userID string, employeeID string, role user.Role) string {
	t.Helper()
	companyID := "company-1"
	claims := jwt.AccessClaims{UserID: userID, CompanyID: &companyID, Role: role}
	if employeeID != "" {
		claims.EmployeeID = &employeeID
	}
	token, _, err := f.jwtService.GenerateAccessToken(claims, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) employeeToken(t *testing.T, employeeID string) string {
	return f.token(t, "user-"+employeeID, employeeID, user.RoleEmployee)
}

func (f *apiFixture) managerToken(t *testing.T) string {
	return f.token(t, "manager-1", "", user.RoleManager)
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (f *apiFixture) punch(t *testing.T, token string, typ punch.Type, hour int, lat float64) (int, envelope) {
	t.Helper()
	f.clock.Set(time.Date(2024, 1, 2, hour, 0, 0, 0, time.UTC))
	return f.do(t, http.MethodPost, "/api/v1/punches", token, map[string]interface{}{
		"type":      string(typ),
		"latitude":  lat,
		"longitude": 0.0,
	})
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodGet, "/api/v1/punches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	foreign, _, err := jwt.NewJWTService("another-secret").GenerateAccessToken(jwt.AccessClaims{UserID: "user-1", Role: user.RoleEmployee}, time.Hour)
	require.NoError(t, err)
	code, _ = f.do(t, http.MethodGet, "/api/v1/punches", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_RegisterPunch(t *testing.T) {
	f := newAPIFixture(t)
	token := f.employeeToken(t, "emp-1")

	code, env := f.punch(t, token, punch.TypeIn, 8, 0)
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decodeData[punch.PunchResponse](t, env)
	assert.Equal(t, "emp-1", created.EmployeeID)
	assert.Equal(t, string(punch.TypeIn), created.Type)
	assert.Equal(t, string(punch.StatusApproved), created.Status)

	code, env = f.punch(t, token, punch.TypeIn, 9, 0)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)

	code, env = f.do(t, http.MethodPost, "/api/v1/punches", token, map[string]string{"type": "LUNCH"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "type")

	code, env = f.do(t, http.MethodGet, "/api/v1/punches/today", token, nil)
	require.Equal(t, http.StatusOK, code)
	day := decodeData[punch.DayPunchesResponse](t, env)
	assert.Len(t, day.Punches, 1)
	require.NotNil(t, day.NextType)
	assert.Equal(t, string(punch.TypeBreakStart), *day.NextType)

	code, env = f.do(t, http.MethodGet, "/api/v1/punches/last", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, decodeData[punch.PunchResponse](t, env).ID)
}

func TestRouter_PunchRequiresEmployeeToken(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.punch(t, f.managerToken(t), punch.TypeIn, 8, 0)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestRouter_ListPunchesScope(t *testing.T) {
	f := newAPIFixture(t)
	f.punch(t, f.employeeToken(t, "emp-1"), punch.TypeIn, 8, 0)

	code, env := f.do(t, http.MethodGet, "/api/v1/punches?employee_id=emp-1", f.managerToken(t), nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalItems)

	code, _ = f.do(t, http.MethodGet, "/api/v1/punches?employee_id=emp-1", f.employeeToken(t, "emp-2"), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = f.do(t, http.MethodGet, "/api/v1/punches", f.employeeToken(t, "emp-2"), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.Meta.TotalItems)

	code, _ = f.do(t, http.MethodGet, "/api/v1/punches?employee_id=emp-9", f.managerToken(t), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_TimeBank(t *testing.T) {
	f := newAPIFixture(t)
	token := f.employeeToken(t, "emp-1")

	f.punch(t, token, punch.TypeIn, 8, 0)
	code, _ := f.punch(t, token, punch.TypeBreakStart, 12, 0)
	require.Equal(t, http.StatusCreated, code)

	code, env := f.do(t, http.MethodGet, "/api/v1/time-bank?month=1&year=2024", token, nil)
	require.Equal(t, http.StatusOK, code)
	balance := decodeData[timebank.TimeBankResponse](t, env)
	assert.Equal(t, 4.0, balance.WorkedHours)
	assert.Equal(t, 16.0, balance.ExpectedHours)
	assert.Equal(t, -12.0, balance.BalanceTotal)

	code, env = f.do(t, http.MethodGet, "/api/v1/time-bank?start_date=2024-01-02&end_date=2024-01-02", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, -4.0, decodeData[timebank.TimeBankResponse](t, env).BalancePeriod)

	code, _ = f.do(t, http.MethodGet, "/api/v1/time-bank?month=june", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodGet, "/api/v1/time-bank?month=13&year=2024", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRouter_JustificationWorkflow(t *testing.T) {
	f := newAPIFixture(t)
	employee := f.employeeToken(t, "emp-1")
	manager := f.managerToken(t)

	code, env := f.punch(t, employee, punch.TypeIn, 8, 0.002)
	require.Equal(t, http.StatusCreated, code)
	pending := decodeData[punch.PunchResponse](t, env)
	require.Equal(t, string(punch.StatusPending), pending.Status)

	code, env = f.do(t, http.MethodPost, "/api/v1/justifications", employee, map[string]string{
		"punch_id": pending.ID,
		"category": string(justification.CategoryExternalMeeting),
		"reason":   "client visit",
	})
	require.Equal(t, http.StatusCreated, code)
	opened := decodeData[justification.JustificationResponse](t, env)

	code, _ = f.do(t, http.MethodPost, "/api/v1/justifications/"+opened.ID+"/approve", employee, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.do(t, http.MethodGet, "/api/v1/justifications/"+opened.ID, f.employeeToken(t, "emp-2"), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = f.do(t, http.MethodPost, "/api/v1/justifications/"+opened.ID+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, code)
	approved := decodeData[justification.JustificationResponse](t, env)
	require.NotNil(t, approved.PunchStatus)
	assert.Equal(t, string(punch.StatusJustified), *approved.PunchStatus)

	code, _ = f.do(t, http.MethodPost, "/api/v1/justifications/"+opened.ID+"/reject", manager, map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = f.do(t, http.MethodGet, "/api/v1/justifications/stats", manager, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, justification.StatsResponse{Total: 1, Approved: 1}, decodeData[justification.StatsResponse](t, env))
}

func TestRouter_AbsenceDetectionAndReview(t *testing.T) {
	f := newAPIFixture(t)
	manager := f.managerToken(t)

	code, _ := f.do(t, http.MethodPost, "/api/v1/absences/detect", f.employeeToken(t, "emp-1"), map[string]string{"date": "2024-01-01"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := f.do(t, http.MethodPost, "/api/v1/absences/detect", manager, map[string]string{"date": "2024-01-01"})
	require.Equal(t, http.StatusOK, code)
	report := decodeData[absence.DetectionReport](t, env)
	require.Len(t, report.Created, 2)
	assert.Empty(t, report.Failures)

	code, env = f.do(t, http.MethodGet, "/api/v1/absences", f.employeeToken(t, "emp-1"), nil)
	require.Equal(t, http.StatusOK, code)
	own := decodeData[[]absence.AbsenceResponse](t, env)
	require.Len(t, own, 1)
	assert.Equal(t, "emp-1", own[0].EmployeeID)
	assert.Equal(t, string(absence.KindFullUnjustified), own[0].Kind)

	code, env = f.do(t, http.MethodPost, "/api/v1/absences/"+own[0].ID+"/approve", manager, map[string]string{"note": "confirmed"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(absence.StatusApproved), decodeData[absence.AbsenceResponse](t, env).Status)

	code, _ = f.do(t, http.MethodDelete, "/api/v1/absences/"+own[0].ID, manager, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = f.do(t, http.MethodPost, "/api/v1/absences/detect-range", manager, map[string]string{
		"start_date": "2024-01-02",
		"end_date":   "2024-01-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "end_date")
}

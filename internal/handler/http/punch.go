package http

import (
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

type PunchHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Last(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
}

type punchHandlerImpl struct {
	punchService punch.PunchService
	clock        clock.Clock
}

func NewPunchHandler(punchService punch.PunchService, clk clock.Clock) PunchHandler {
	return &punchHandlerImpl{
		punchService: punchService,
		clock:        clk,
	}
}

// Register implements PunchHandler. The employee always comes from the token.
func (h *punchHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req punch.RegisterPunchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = claims.EmployeeID

	result, err := h.punchService.RegisterPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch registered successfully", result)
}

// List implements PunchHandler.
func (h *punchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	employeeID, err := subjectEmployee(claims, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.punchService.ListPunches(r.Context(), punch.ListPunchesRequest{
		CompanyID:  claims.CompanyID,
		EmployeeID: employeeID,
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

// Last implements PunchHandler.
func (h *punchHandlerImpl) Last(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	result, err := h.punchService.GetLastPunch(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.SuccessWithMessage(w, "No punches recorded yet", nil)
		return
	}

	response.Success(w, result)
}

// Today implements PunchHandler.
func (h *punchHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	today := utils.FormatDate(h.clock.Now())
	result, err := h.punchService.GetPunchesForDay(r.Context(), claims.EmployeeID, today)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

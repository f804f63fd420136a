package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/timebank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
)

type TimeBankHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type timeBankHandlerImpl struct {
	timeBankService timebank.TimeBankService
	clock           clock.Clock
}

func NewTimeBankHandler(timeBankService timebank.TimeBankService, clk clock.Clock) TimeBankHandler {
	return &timeBankHandlerImpl{
		timeBankService: timeBankService,
		clock:           clk,
	}
}

// Get implements TimeBankHandler. start_date and end_date select an arbitrary range; otherwise
// month and year select a calendar month, defaulting to the current one.
func (h *timeBankHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	employeeID, err := subjectEmployee(claims, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	if query.Get("start_date") != "" || query.Get("end_date") != "" {
		result, err := h.timeBankService.ComputeTimeBankRange(r.Context(), timebank.TimeBankRangeRequest{
			CompanyID:  claims.CompanyID,
			EmployeeID: employeeID,
			StartDate:  query.Get("start_date"),
			EndDate:    query.Get("end_date"),
		})
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	now := h.clock.Now()
	req := timebank.TimeBankRequest{
		CompanyID:  claims.CompanyID,
		EmployeeID: employeeID,
		Month:      int(now.Month()),
		Year:       now.Year(),
	}
	if m := query.Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			response.BadRequest(w, "month must be a number", nil)
			return
		}
		req.Month = month
	}
	if y := query.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		req.Year = year
	}

	result, err := h.timeBankService.ComputeTimeBank(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Detect(w http.ResponseWriter, r *http.Request)
	DetectRange(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &absenceHandlerImpl{
		absenceService: absenceService,
	}
}

// Register implements AbsenceHandler.
func (h *absenceHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req absence.RegisterAbsenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CompanyID = claims.CompanyID

	result, err := h.absenceService.RegisterAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence registered successfully", result)
}

// List implements AbsenceHandler. Employees only ever see their own absences.
func (h *absenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	req := absence.ListAbsencesRequest{
		CompanyID: &claims.CompanyID,
		Status:    queryPtr(r, "status"),
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
	}
	if claims.IsManager() {
		req.EmployeeID = queryPtr(r, "employee_id")
	} else {
		employeeID, err := subjectEmployee(claims, r.URL.Query().Get("employee_id"))
		if err != nil {
			response.HandleError(w, err)
			return
		}
		req.EmployeeID = &employeeID
	}

	results, err := h.absenceService.ListAbsences(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

// Get implements AbsenceHandler.
func (h *absenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	result, err := h.absenceService.GetAbsence(r.Context(), id, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.IsManager() && result.EmployeeID != claims.EmployeeID {
		response.HandleError(w, fmt.Errorf("absence with id %s: %w", id, absence.ErrAbsenceNotFound))
		return
	}

	response.Success(w, result)
}

// Approve implements AbsenceHandler.
func (h *absenceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req absence.ApproveAbsenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = claims.UserID
	req.CompanyID = claims.CompanyID

	result, err := h.absenceService.ApproveAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence approved successfully", result)
}

// Reject implements AbsenceHandler.
func (h *absenceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req absence.RejectAbsenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = claims.UserID
	req.CompanyID = claims.CompanyID

	result, err := h.absenceService.RejectAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence rejected successfully", result)
}

// Delete implements AbsenceHandler.
func (h *absenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	if err := h.absenceService.DeleteAbsence(r.Context(), chi.URLParam(r, "id"), claims.CompanyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence deleted successfully", nil)
}

// Detect implements AbsenceHandler.
func (h *absenceHandlerImpl) Detect(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req absence.DetectAbsencesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CompanyID = claims.CompanyID

	report, err := h.absenceService.DetectAbsences(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, detectionMessage(report), report)
}

// DetectRange implements AbsenceHandler.
func (h *absenceHandlerImpl) DetectRange(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req absence.DetectAbsencesRangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CompanyID = claims.CompanyID

	report, err := h.absenceService.DetectAbsencesRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, detectionMessage(report), report)
}

func detectionMessage(report absence.DetectionReport) string {
	return fmt.Sprintf("%d absences detected, %d skipped, %d failed", len(report.Created), report.Skipped, len(report.Failures))
}

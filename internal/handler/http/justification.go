package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type JustificationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type justificationHandlerImpl struct {
	justificationService justification.JustificationService
}

func NewJustificationHandler(justificationService justification.JustificationService) JustificationHandler {
	return &justificationHandlerImpl{
		justificationService: justificationService,
	}
}

// Create implements JustificationHandler.
func (h *justificationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req justification.CreateJustificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = claims.EmployeeID

	result, err := h.justificationService.CreateJustification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Justification submitted successfully", result)
}

// List implements JustificationHandler.
func (h *justificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	req := justification.ListJustificationsRequest{
		CompanyID: &claims.CompanyID,
		Status:    queryPtr(r, "status"),
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

	results, err := h.justificationService.ListJustifications(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

// Get implements JustificationHandler.
func (h *justificationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	result, err := h.justificationService.GetJustification(r.Context(), id, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.IsManager() && result.EmployeeID != claims.EmployeeID {
		response.HandleError(w, fmt.Errorf("justification with id %s: %w", id, justification.ErrJustificationNotFound))
		return
	}

	response.Success(w, result)
}

// Stats implements JustificationHandler.
func (h *justificationHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	result, err := h.justificationService.GetStats(r.Context(), claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements JustificationHandler.
func (h *justificationHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req justification.ApproveJustificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = claims.UserID
	req.CompanyID = claims.CompanyID

	result, err := h.justificationService.ApproveJustification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification approved successfully", result)
}

// Reject implements JustificationHandler.
func (h *justificationHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req justification.RejectJustificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = claims.UserID
	req.CompanyID = claims.CompanyID

	result, err := h.justificationService.RejectJustification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Justification rejected successfully", result)
}

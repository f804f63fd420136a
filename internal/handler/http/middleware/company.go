package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
)

// RequireCompany rejects tokens that are not bound to a company.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if claims.CompanyID == "" {
			response.HandleError(w, auth.ErrCompanyIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireEmployee rejects tokens that are not bound to an employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if claims.EmployeeID == "" {
			response.HandleError(w, auth.ErrEmployeeIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

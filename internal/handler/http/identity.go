package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
)

// requestClaims writes the error response itself and reports false when the caller has no identity.
func requestClaims(w http.ResponseWriter, r *http.Request) (middleware.Claims, bool) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return middleware.Claims{}, false
	}
	return claims, true
}

// subjectEmployee resolves whose records a request targets. Managers may name any employee of their
// company; everyone else is limited to their own records.
func subjectEmployee(claims middleware.Claims, requested string) (string, error) {
	if requested == "" || requested == claims.EmployeeID {
		if claims.EmployeeID == "" {
			return "", auth.ErrEmployeeIDRequired
		}
		return claims.EmployeeID, nil
	}
	if !claims.IsManager() {
		return "", fmt.Errorf("records of employee %s: %w", requested, user.ErrInsufficientPermissions)
	}
	return requested, nil
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		slog.Debug("request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func queryPtr(r *http.Request, key string) *string {
	if value := r.URL.Query().Get(key); value != "" {
		return &value
	}
	return nil
}

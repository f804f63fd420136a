package middleware

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the caller identity carried by a verified access token.
type Claims struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       user.Role
}

func (c Claims) IsManager() bool {
	return c.Role.IsManager()
}

// ClaimsFromContext reads the token placed in ctx by jwtauth.Verifier. Missing employee or company ids
// are left empty; RequireEmployee and RequireCompany enforce them per route.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, fmt.Errorf("user_id: %w", auth.ErrMissingClaim)
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Claims{}, fmt.Errorf("role: %w", auth.ErrMissingClaim)
	}

	employeeID, _ := claims["employee_id"].(string)
	companyID, _ := claims["company_id"].(string)

	return Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       user.Role(role),
	}, nil
}

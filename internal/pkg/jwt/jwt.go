package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// AccessClaims identify the caller. Tokens are issued by the account service sharing JWT_SECRET;
// GenerateAccessToken exists for tooling and tests.
type AccessClaims struct {
	UserID     string
	EmployeeID *string
	CompanyID  *string
	Role       user.Role
}

type Service interface {
	GenerateAccessToken(claims AccessClaims, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims, ttl time.Duration) (token string, expiresAt int64, err error) {
	if claims.UserID == "" {
		return "", 0, fmt.Errorf("user id is required")
	}
	expiresAt = time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     claims.UserID,
		"employee_id": returnValueOrNil(claims.EmployeeID),
		"company_id":  returnValueOrNil(claims.CompanyID),
		"role":        string(claims.Role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

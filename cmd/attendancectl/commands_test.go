package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--secret", "cli-secret", "--user", "user-1", "--employee", "emp-1", "--company", "company-1", "--role", "manager")
	require.NoError(t, err)

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.AccessToken)

	decoded, err := jwt.NewJWTService("cli-secret").JWTAuth().Decode(result.AccessToken)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "emp-1", claims["employee_id"])
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "token", "--secret", "s", "--user", "user-1", "--role", "guest")
	assert.ErrorContains(t, err, "unknown role")

	_, err = execute(t, "token", "--secret", "s")
	assert.Error(t, err, "--user is required")
}

func TestDetectAbsencesCommand_RequiresOneDateForm(t *testing.T) {
	_, err := execute(t, "detect-absences")
	assert.ErrorContains(t, err, "--date")

	_, err = execute(t, "detect-absences", "--date", "2024-01-01", "--start", "2024-01-01", "--end", "2024-01-02")
	assert.ErrorContains(t, err, "--date")
}

package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("staff-1", user.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	identity, err := IdentityFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", identity.StaffID)
	assert.Equal(t, user.RoleManager, identity.Role)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")

	_, _, err := svc.GenerateAccessToken("staff-1", user.RoleStaff)
	assert.Error(t, err)
}

func TestIdentityFromContext_MissingToken(t *testing.T) {
	_, err := IdentityFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestIdentityFromContext_UnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	ja := svc.JWTAuth()

	token, _, err := ja.Encode(map[string]interface{}{"staff_id": "staff-1", "role": "pending", "type": "access"})
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	_, err = IdentityFromContext(ctx)
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

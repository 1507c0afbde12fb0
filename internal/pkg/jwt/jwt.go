package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider. Token
// issuance is kept for local tooling and tests.
type Service interface {
	GenerateAccessToken(staffID string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(staffID string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"staff_id": staffID,
		"role":     string(role),
		"type":     "access",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// IdentityFromContext reads the caller from claims placed by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (user.Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", user.ErrInvalidToken, err)
	}

	staffID, ok := claims["staff_id"].(string)
	if !ok || staffID == "" {
		return user.Identity{}, user.ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role, ok := user.ParseRole(roleStr)
	if !ok {
		return user.Identity{}, user.ErrInvalidRole
	}

	return user.Identity{StaffID: staffID, Role: role}, nil
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.IdentityFromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		if !identity.IsManager() {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks if the caller's role has a specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := jwt.IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, fmt.Errorf("%w: required '%s'", user.ErrInsufficientPermissions, permission))
				return
			}

			if !user.HasPermission(identity.Role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'", user.ErrInsufficientPermissions, permission, identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

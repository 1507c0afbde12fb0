package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, "Invalid role claim")
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrUnauthorizedStaffID):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrPunchNotFound):
		NotFound(w, "Punch event not found")
	case errors.Is(err, attendance.ErrInvalidPunchType),
		errors.Is(err, attendance.ErrIncompleteLocation),
		errors.Is(err, attendance.ErrPunchInFuture),
		errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, attendance.ErrDateRangeTooLarge):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

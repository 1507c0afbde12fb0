package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or missing access token")
	ErrInvalidRole             = errors.New("role claim is missing or invalid")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

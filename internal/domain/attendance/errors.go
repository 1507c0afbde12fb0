package attendance

import "errors"

// Attendance domain errors
var (
	// Capture errors
	ErrInvalidPunchType    = errors.New("punch type must be one of: in, out, break_start, break_end")
	ErrIncompleteLocation  = errors.New("latitude and longitude must be provided together")
	ErrPunchInFuture       = errors.New("punch timestamp is in the future")
	ErrPunchNotFound       = errors.New("punch event not found")
	ErrInvalidDateRange    = errors.New("start_date must not be after end_date")
	ErrDateRangeTooLarge   = errors.New("date range must not exceed 366 days")
	ErrUnauthorizedStaffID = errors.New("unauthorized to access another staff member's attendance")
)

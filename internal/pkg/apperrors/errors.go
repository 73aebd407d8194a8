package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Session errors. Token-level failures are reported by pkg/auth with its
	// own sentinels; the auth middleware answers those directly.
	ErrUnauthenticated = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Profile errors
var (
	ErrProfileNotFound          = errors.New("profile not found")
	ErrStudentProfileNotFound   = errors.New("student profile not found")
	ErrFacultyProfileNotFound   = errors.New("faculty profile not found")
	ErrRecruiterProfileNotFound = errors.New("recruiter profile not found")
)

// Achievement errors
var (
	ErrAchievementNotFound       = errors.New("achievement not found")
	ErrAchievementAlreadyDecided = errors.New("achievement has already been decided")
	ErrApprovalNotPermitted      = errors.New("faculty member cannot approve achievements")
	ErrCreditCeilingExceeded     = errors.New("credits exceed the faculty member's approval ceiling")
)

// Event errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrNotEventOrganizer  = errors.New("caller does not organize this event")
	ErrEventFull          = errors.New("event has reached its participant limit")
	ErrRegistrationClosed = errors.New("event registration deadline has passed")
	ErrAlreadyRegistered  = errors.New("student is already registered for this event")
	ErrEventNotOpen       = errors.New("event is not open for registration")
)

// Job errors
var (
	ErrJobNotFound         = errors.New("job posting not found")
	ErrJobClosed           = errors.New("job posting is closed")
	ErrAlreadyApplied      = errors.New("student has already applied to this job")
	ErrApplicationNotFound = errors.New("job application not found")
	ErrNotJobOwner         = errors.New("caller does not own this job posting")
)

// NewNotFoundError creates a custom error wrapping ErrResourceNotFound with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom error wrapping ErrConflict with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a custom error wrapping ErrPermissionDenied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a custom error wrapping ErrValidationFailed with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError carries a sentinel error plus request-specific context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

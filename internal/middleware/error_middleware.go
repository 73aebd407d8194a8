package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/logger"
)

// statusMapping binds a sentinel error to its HTTP status, API error code and
// default message.
type statusMapping struct {
	sentinel error
	status   int
	code     dto.ErrorCode
	message  string
}

// Ordering matters: specific sentinels are listed before the generic ones
// they may wrap.
var errorMappings = []statusMapping{
	// 401
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},

	// 403
	{apperrors.ErrApprovalNotPermitted, http.StatusForbidden, dto.ErrorCodeForbidden, "Faculty member cannot approve achievements"},
	{apperrors.ErrCreditCeilingExceeded, http.StatusForbidden, dto.ErrorCodeForbidden, "Credits exceed the approval ceiling"},
	{apperrors.ErrNotEventOrganizer, http.StatusForbidden, dto.ErrorCodeForbidden, "You do not organize this event"},
	{apperrors.ErrNotJobOwner, http.StatusForbidden, dto.ErrorCodeForbidden, "You do not own this job posting"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	// 404
	{apperrors.ErrAchievementNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Achievement not found"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
	{apperrors.ErrJobNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Job posting not found"},
	{apperrors.ErrApplicationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Job application not found"},
	{apperrors.ErrProfileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Profile not found"},
	{apperrors.ErrStudentProfileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student profile not found"},
	{apperrors.ErrFacultyProfileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Faculty profile not found"},
	{apperrors.ErrRecruiterProfileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Recruiter profile not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	// 409
	{apperrors.ErrAchievementAlreadyDecided, http.StatusConflict, dto.ErrorCodeConflict, "Achievement has already been decided"},
	{apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeConflict, "Already registered for this event"},
	{apperrors.ErrAlreadyApplied, http.StatusConflict, dto.ErrorCodeConflict, "Already applied to this job"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},

	// 400
	{apperrors.ErrEventFull, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Event has reached its participant limit"},
	{apperrors.ErrRegistrationClosed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Registration deadline has passed"},
	{apperrors.ErrEventNotOpen, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Event is not open for registration"},
	{apperrors.ErrJobClosed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Job posting is closed"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
}

// HandleAPIError maps a service error onto the standard error response. A
// CustomError's message overrides the mapping's default so callers see the
// request-specific reason.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			message := m.message
			var custom *apperrors.CustomError
			if errors.As(err, &custom) && custom.Message != "" {
				message = custom.Message
			}

			errorDetail := dto.NewErrorDetail(m.code, message)
			if custom != nil && custom.Details != nil {
				errorDetail = errorDetail.WithDetails(custom.Details)
			}

			c.JSON(m.status, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/app/services"
	"github.com/deniz/campuslink/internal/middleware"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
)

// EventController handles event lifecycle operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// Create handles organizer event creation
// @Summary Create an event
// @Description Creates an upcoming event owned by the calling organizer
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Router /faculty/events [post]
func (c *EventController) Create(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	event, err := c.eventService.Create(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// UpdateStatus handles organizer status transitions
// @Summary Update event status
// @Description Moves one of the caller's events to a new lifecycle status
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the event organizer"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /faculty/events/{id} [patch]
func (c *EventController) UpdateStatus(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid event ID")
		errorDetail = errorDetail.WithDetails("Event ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	event, err := c.eventService.UpdateStatus(ctx, identity, eventID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// ListMine handles listing the organizer's own events
// @Summary List the caller's events
// @Description Retrieves the calling organizer's events with their participant lists
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (upcoming, ongoing, completed, cancelled)"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events retrieved"
// @Router /faculty/events [get]
func (c *EventController) ListMine(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var status *models.EventStatus
	if statusStr := ctx.Query("status"); statusStr != "" {
		s := models.EventStatus(statusStr)
		status = &s
	}

	events, err := c.eventService.ListMine(ctx, identity, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// ListOpen handles student-facing event browsing
// @Summary List open events
// @Description Retrieves upcoming events annotated with participant counts and the caller's registration state
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.OpenEventResponse} "Events retrieved"
// @Router /events [get]
func (c *EventController) ListOpen(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	events, err := c.eventService.ListOpen(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// Register handles student event registration
// @Summary Register for an event
// @Description Registers the calling student for an upcoming event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=models.EventParticipant} "Registered"
// @Failure 400 {object} dto.ErrorResponse "Registration closed or event full"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid event ID")
		errorDetail = errorDetail.WithDetails("Event ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	participant, err := c.eventService.Register(ctx, identity, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(participant))
}

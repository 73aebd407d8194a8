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

// AchievementController handles achievement lifecycle operations
type AchievementController struct {
	achievementService services.AchievementService
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService) *AchievementController {
	return &AchievementController{achievementService: achievementService}
}

// Submit handles a student's achievement submission
// @Summary Submit an achievement
// @Description Creates a pending achievement for the calling student
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitAchievementRequest true "Achievement details"
// @Success 201 {object} dto.APIResponse{data=models.Achievement} "Achievement submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Student profile not found"
// @Router /achievements [post]
func (c *AchievementController) Submit(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.SubmitAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	achievement, err := c.achievementService.Submit(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(achievement))
}

// List handles achievement listing with role-based scoping
// @Summary List achievements
// @Description Lists achievements. Students see their own; faculty and institution admins see everyone's.
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param studentId query string false "Filter by student ID (faculty and admins)"
// @Success 200 {object} dto.APIResponse{data=[]models.Achievement} "Achievements retrieved"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Router /achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	filter := &dto.AchievementFilter{}
	if statusStr := ctx.Query("status"); statusStr != "" {
		status := models.AchievementStatus(statusStr)
		filter.Status = &status
	}
	if studentIDStr := ctx.Query("studentId"); studentIDStr != "" {
		studentID, err := uuid.Parse(studentIDStr)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
			errorDetail = errorDetail.WithDetails("Student ID must be a valid UUID")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.StudentID = &studentID
	}

	achievements, err := c.achievementService.List(ctx, identity, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(achievements))
}

// Decide handles a faculty decision on a pending achievement
// @Summary Decide an achievement
// @Description Approves or rejects a pending achievement. Approval credits the student atomically.
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Param request body dto.DecideAchievementRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.DecisionResponse} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Approval not permitted"
// @Failure 404 {object} dto.ErrorResponse "Achievement not found"
// @Failure 409 {object} dto.ErrorResponse "Achievement already decided"
// @Router /achievements/{id} [patch]
func (c *AchievementController) Decide(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	achievementID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid achievement ID")
		errorDetail = errorDetail.WithDetails("Achievement ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.DecideAchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	decision, err := c.achievementService.Decide(ctx, identity, achievementID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(decision))
}

// ListCategories handles retrieving the achievement category catalog
// @Summary List achievement categories
// @Description Retrieves the seeded achievement categories
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AchievementCategory} "Categories retrieved"
// @Router /achievements/categories [get]
func (c *AchievementController) ListCategories(ctx *gin.Context) {
	categories, err := c.achievementService.ListCategories(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}

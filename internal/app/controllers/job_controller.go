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
	"github.com/deniz/campuslink/internal/pkg/helpers"
)

// JobController handles job board operations
type JobController struct {
	jobService services.JobService
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService) *JobController {
	return &JobController{jobService: jobService}
}

// PostJob handles recruiter job creation
// @Summary Post a job
// @Description Creates an active job posting under the calling recruiter's company
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostJobRequest true "Job details"
// @Success 201 {object} dto.APIResponse{data=models.JobPosting} "Job posted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Recruiter profile required"
// @Router /jobs [post]
func (c *JobController) PostJob(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.PostJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	job, err := c.jobService.PostJob(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(job))
}

// ListJobs handles listing active postings
// @Summary List active jobs
// @Description Retrieves active postings with optional filters; students see their own application state per job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobType query string false "Filter by job type"
// @Param category query string false "Filter by category"
// @Param location query string false "Filter by location substring"
// @Success 200 {object} dto.APIResponse{data=dto.JobListResponse} "Jobs retrieved"
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	filter := &dto.JobFilter{}
	if jobType := ctx.Query("jobType"); jobType != "" {
		filter.JobType = &jobType
	}
	if category := ctx.Query("category"); category != "" {
		filter.Category = &category
	}
	if location := ctx.Query("location"); location != "" {
		filter.Location = &location
	}

	response, err := c.jobService.ListJobs(ctx, identity, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CloseJob handles recruiter job closure
// @Summary Close a job
// @Description Moves one of the caller's postings to closed
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.APIResponse{data=models.JobPosting} "Job closed"
// @Failure 403 {object} dto.ErrorResponse "Not the job owner"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id}/close [patch]
func (c *JobController) CloseJob(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	jobID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid job ID")
		errorDetail = errorDetail.WithDetails("Job ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	job, err := c.jobService.CloseJob(ctx, identity, jobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(job))
}

// Apply handles a student's job application
// @Summary Apply to a job
// @Description Submits the calling student's application for an active posting
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyRequest true "Application details"
// @Success 201 {object} dto.APIResponse{data=models.JobApplication} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Job closed or validation failed"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /applications [post]
func (c *JobController) Apply(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	application, err := c.jobService.Apply(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(application))
}

// ListApplications handles listing the student's applications
// @Summary List the caller's applications
// @Description Retrieves a page of the calling student's applications joined with job summaries
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, interviewing, approved, rejected)"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications retrieved"
// @Router /applications [get]
func (c *JobController) ListApplications(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var status *models.ApplicationStatus
	if statusStr := ctx.Query("status"); statusStr != "" {
		s := models.ApplicationStatus(statusStr)
		if !models.ValidApplicationStatus(s) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid application status")
			errorDetail = errorDetail.WithDetails("Status must be one of pending, interviewing, approved, rejected")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		status = &s
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.jobService.ListApplications(ctx, identity, status, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateApplicationStatus handles recruiter application decisions
// @Summary Update application status
// @Description Moves an application on one of the caller's postings to a new status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.JobApplication} "Status updated"
// @Failure 403 {object} dto.ErrorResponse "Not the job owner"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [patch]
func (c *JobController) UpdateApplicationStatus(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	applicationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid application ID")
		errorDetail = errorDetail.WithDetails("Application ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	application, err := c.jobService.UpdateApplicationStatus(ctx, identity, applicationID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(application))
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
)

// PostJobRequest is the recruiter's job creation payload. The company is
// resolved from the recruiter profile, so it is deliberately absent here.
type PostJobRequest struct {
	Title               string     `json:"title" binding:"required"`
	Description         string     `json:"description" binding:"required"`
	JobType             string     `json:"jobType" binding:"required"`
	Category            string     `json:"category" binding:"required"`
	Location            string     `json:"location" binding:"required"`
	SalaryMin           *int64     `json:"salaryMin,omitempty"`
	SalaryMax           *int64     `json:"salaryMax,omitempty"`
	Requirements        []string   `json:"requirements,omitempty"`
	Responsibilities    []string   `json:"responsibilities,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
}

// JobFilter scopes a job listing
type JobFilter struct {
	JobType  *string
	Category *string
	Location *string
}

// JobWithApplication annotates a posting with the caller's own application,
// if any.
type JobWithApplication struct {
	models.JobPosting
	HasApplied        bool                      `json:"hasApplied"`
	ApplicationStatus *models.ApplicationStatus `json:"applicationStatus,omitempty"`
}

// JobListResponse wraps an annotated job listing
type JobListResponse struct {
	Jobs []JobWithApplication `json:"jobs"`
}

// ApplyRequest is the student's application payload
type ApplyRequest struct {
	JobID       uuid.UUID `json:"jobId" binding:"required"`
	CoverLetter *string   `json:"coverLetter,omitempty"`
	ResumeURL   *string   `json:"resumeUrl,omitempty"`
}

// UpdateApplicationStatusRequest moves an application to a new status
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=pending interviewing approved rejected"`
}

// ApplicationListResponse is a paginated application listing joined with job
// summaries
type ApplicationListResponse struct {
	Applications []models.JobApplication `json:"applications"`
	Pagination   PaginationInfo          `json:"pagination"`
}

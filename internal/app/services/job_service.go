package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/auth"
	"github.com/deniz/campuslink/internal/pkg/helpers"
)

// JobService defines the interface for the job board
type JobService interface {
	PostJob(ctx context.Context, identity *auth.Identity, req *dto.PostJobRequest) (*models.JobPosting, error)
	ListJobs(ctx context.Context, identity *auth.Identity, filter *dto.JobFilter) (*dto.JobListResponse, error)
	CloseJob(ctx context.Context, identity *auth.Identity, jobID uuid.UUID) (*models.JobPosting, error)
	Apply(ctx context.Context, identity *auth.Identity, req *dto.ApplyRequest) (*models.JobApplication, error)
	ListApplications(ctx context.Context, identity *auth.Identity, status *models.ApplicationStatus, page, pageSize int) (*dto.ApplicationListResponse, error)
	UpdateApplicationStatus(ctx context.Context, identity *auth.Identity, applicationID uuid.UUID, status models.ApplicationStatus) (*models.JobApplication, error)
}

// jobServiceImpl implements JobService
type jobServiceImpl struct {
	jobRepo     JobStore
	profileRepo ProfileStore
}

// NewJobService creates a new JobService
func NewJobService(jobRepo JobStore, profileRepo ProfileStore) JobService {
	return &jobServiceImpl{
		jobRepo:     jobRepo,
		profileRepo: profileRepo,
	}
}

// PostJob creates an active posting owned by the calling recruiter. The
// company name always comes from the recruiter profile, never from the
// request, so a recruiter cannot post under someone else's company.
func (s *jobServiceImpl) PostJob(ctx context.Context, identity *auth.Identity, req *dto.PostJobRequest) (*models.JobPosting, error) {
	recruiter, err := s.resolveRecruiter(ctx, identity)
	if err != nil {
		return nil, err
	}

	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, apperrors.NewValidationError("salaryMin cannot exceed salaryMax")
	}
	if req.ApplicationDeadline != nil && req.ApplicationDeadline.Before(time.Now()) {
		return nil, apperrors.NewValidationError("application deadline cannot be in the past")
	}

	job := &models.JobPosting{
		RecruiterID:         recruiter.ID,
		CompanyName:         recruiter.CompanyName,
		Title:               req.Title,
		Description:         req.Description,
		JobType:             req.JobType,
		Category:            req.Category,
		Location:            req.Location,
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		Requirements:        req.Requirements,
		Responsibilities:    req.Responsibilities,
		ApplicationDeadline: req.ApplicationDeadline,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// ListJobs returns active postings matching the filter. When the caller is a
// student with a student row, every posting is annotated with that student's
// own application state.
func (s *jobServiceImpl) ListJobs(ctx context.Context, identity *auth.Identity, filter *dto.JobFilter) (*dto.JobListResponse, error) {
	jobs, err := s.jobRepo.ListActive(ctx, filter.JobType, filter.Category, filter.Location)
	if err != nil {
		return nil, err
	}

	statuses := map[uuid.UUID]models.ApplicationStatus{}
	if identity.Role == models.RoleStudent {
		student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
		if err == nil {
			ids := make([]uuid.UUID, 0, len(jobs))
			for i := range jobs {
				ids = append(ids, jobs[i].ID)
			}
			statuses, err = s.jobRepo.ApplicationStatusesByStudent(ctx, student.ID, ids)
			if err != nil {
				return nil, err
			}
		} else if !isMissingRoleRow(err) {
			return nil, err
		}
	}

	annotated := make([]dto.JobWithApplication, 0, len(jobs))
	for i := range jobs {
		entry := dto.JobWithApplication{JobPosting: jobs[i]}
		if status, ok := statuses[jobs[i].ID]; ok {
			entry.HasApplied = true
			entry.ApplicationStatus = &status
		}
		annotated = append(annotated, entry)
	}

	return &dto.JobListResponse{Jobs: annotated}, nil
}

// CloseJob moves one of the caller's postings to closed
func (s *jobServiceImpl) CloseJob(ctx context.Context, identity *auth.Identity, jobID uuid.UUID) (*models.JobPosting, error) {
	recruiter, err := s.resolveRecruiter(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.jobRepo.Close(ctx, jobID, recruiter.ID)
}

// Apply submits the calling student's application for a job. Closed postings
// and postings past their application deadline are rejected before the
// insert; the duplicate-apply case is left to the schema constraint.
func (s *jobServiceImpl) Apply(ctx context.Context, identity *auth.Identity, req *dto.ApplyRequest) (*models.JobApplication, error) {
	student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobActive {
		return nil, apperrors.ErrJobClosed
	}
	if job.ApplicationDeadline != nil && time.Now().After(*job.ApplicationDeadline) {
		return nil, apperrors.ErrJobClosed
	}

	application := &models.JobApplication{
		JobID:       req.JobID,
		StudentID:   student.ID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	}

	if err := s.jobRepo.CreateApplication(ctx, application); err != nil {
		return nil, err
	}

	application.Job = job
	return application, nil
}

// ListApplications returns a page of the calling student's applications,
// newest first, with the owning job joined in.
func (s *jobServiceImpl) ListApplications(ctx context.Context, identity *auth.Identity, status *models.ApplicationStatus, page, pageSize int) (*dto.ApplicationListResponse, error) {
	student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	applications, total, err := s.jobRepo.ListApplicationsByStudent(ctx, student.ID, status, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dto.ApplicationListResponse{
		Applications: applications,
		Pagination:   helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// UpdateApplicationStatus moves an application on one of the caller's
// postings to a new status.
func (s *jobServiceImpl) UpdateApplicationStatus(ctx context.Context, identity *auth.Identity, applicationID uuid.UUID, status models.ApplicationStatus) (*models.JobApplication, error) {
	recruiter, err := s.resolveRecruiter(ctx, identity)
	if err != nil {
		return nil, err
	}

	if !models.ValidApplicationStatus(status) {
		return nil, apperrors.NewValidationError("invalid application status")
	}

	return s.jobRepo.UpdateApplicationStatus(ctx, applicationID, recruiter.ID, status)
}

// resolveRecruiter maps the caller to their recruiter row. A caller without
// one cannot act on the job board, which reads as forbidden rather than
// not found.
func (s *jobServiceImpl) resolveRecruiter(ctx context.Context, identity *auth.Identity) (*models.Recruiter, error) {
	recruiter, err := s.profileRepo.GetRecruiterByProfileID(ctx, identity.ID)
	if err != nil {
		if isMissingRoleRow(err) {
			return nil, apperrors.NewForbiddenError("recruiter profile required")
		}
		return nil, err
	}
	return recruiter, nil
}

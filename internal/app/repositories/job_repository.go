package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/dberrors"
	"github.com/deniz/campuslink/internal/pkg/logger"
)

var jobColumns = []string{
	"id", "recruiter_id", "company_name", "title", "description", "job_type",
	"category", "location", "salary_min", "salary_max", "requirements",
	"responsibilities", "application_deadline", "status", "created_at",
	"updated_at",
}

// JobRepository handles job posting and application database operations
type JobRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanJob(row pgx.Row) (*models.JobPosting, error) {
	var j models.JobPosting
	err := row.Scan(
		&j.ID, &j.RecruiterID, &j.CompanyName, &j.Title, &j.Description,
		&j.JobType, &j.Category, &j.Location, &j.SalaryMin, &j.SalaryMax,
		&j.Requirements, &j.Responsibilities, &j.ApplicationDeadline,
		&j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a new job posting; postings always start active
func (r *JobRepository) Create(ctx context.Context, job *models.JobPosting) error {
	job.ID = uuid.New()
	job.Status = models.JobActive

	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}

	sql, args, err := r.sb.Insert("job_postings").
		Columns("id", "recruiter_id", "company_name", "title", "description",
			"job_type", "category", "location", "salary_min", "salary_max",
			"requirements", "responsibilities", "application_deadline", "status").
		Values(job.ID, job.RecruiterID, job.CompanyName, job.Title,
			job.Description, job.JobType, job.Category, job.Location,
			job.SalaryMin, job.SalaryMax, job.Requirements, job.Responsibilities,
			job.ApplicationDeadline, job.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create job SQL")
		return fmt.Errorf("failed to build create job query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("recruiterID", job.RecruiterID.String()).Msg("Error executing create job query")
		return fmt.Errorf("error creating job posting: %w", err)
	}

	logger.Info().Str("jobID", job.ID.String()).Str("title", job.Title).Msg("Job posted")
	return nil
}

// GetByID retrieves a job posting by id
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	sql, args, err := r.sb.Select(jobColumns...).
		From("job_postings").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job query: %w", err)
	}

	job, err := scanJob(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Str("jobID", id.String()).Msg("Error scanning job row")
		return nil, fmt.Errorf("error retrieving job posting: %w", err)
	}

	return job, nil
}

// ListActive retrieves active postings matching the optional filters, newest
// first.
func (r *JobRepository) ListActive(ctx context.Context, jobType, category, location *string) ([]models.JobPosting, error) {
	builder := r.sb.Select(jobColumns...).
		From("job_postings").
		Where(squirrel.Eq{"status": models.JobActive}).
		OrderBy("created_at DESC")

	if jobType != nil {
		builder = builder.Where(squirrel.Eq{"job_type": *jobType})
	}
	if category != nil {
		builder = builder.Where(squirrel.Eq{"category": *category})
	}
	if location != nil {
		builder = builder.Where(squirrel.ILike{"location": "%" + *location + "%"})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list jobs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list jobs query")
		return nil, fmt.Errorf("error listing job postings: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.JobPosting, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

// Close moves a posting to closed; scoped to its owning recruiter
func (r *JobRepository) Close(ctx context.Context, jobID, recruiterID uuid.UUID) (*models.JobPosting, error) {
	sql, args, err := r.sb.Update("job_postings").
		Set("status", models.JobClosed).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": jobID, "recruiter_id": recruiterID}).
		Suffix("RETURNING " + joinColumns(jobColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build close job query: %w", err)
	}

	job, err := scanJob(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyJobMiss(ctx, jobID)
		}
		logger.Error().Err(err).Str("jobID", jobID.String()).Msg("Error closing job posting")
		return nil, fmt.Errorf("error closing job posting: %w", err)
	}

	logger.Info().Str("jobID", jobID.String()).Msg("Job posting closed")
	return job, nil
}

func (r *JobRepository) classifyJobMiss(ctx context.Context, jobID uuid.UUID) error {
	sql, args, err := r.sb.Select("1").
		From("job_postings").
		Where(squirrel.Eq{"id": jobID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build job exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return fmt.Errorf("error checking job existence: %w", err)
	}
	if !exists {
		return apperrors.ErrJobNotFound
	}
	return apperrors.ErrNotJobOwner
}

// ApplicationStatusesByStudent returns the student's application status per
// job for the given job ids. Used to annotate job listings with has_applied.
func (r *JobRepository) ApplicationStatusesByStudent(ctx context.Context, studentID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]models.ApplicationStatus, error) {
	statuses := make(map[uuid.UUID]models.ApplicationStatus, len(jobIDs))
	if len(jobIDs) == 0 {
		return statuses, nil
	}

	sql, args, err := r.sb.Select("job_id", "status").
		From("job_applications").
		Where(squirrel.Eq{"student_id": studentID, "job_id": jobIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build application statuses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing application statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var jobID uuid.UUID
		var status models.ApplicationStatus
		if err := rows.Scan(&jobID, &status); err != nil {
			return nil, fmt.Errorf("error scanning application status row: %w", err)
		}
		statuses[jobID] = status
	}

	return statuses, rows.Err()
}

// CreateApplication inserts a job application. The (job_id, student_id)
// unique constraint closes the duplicate-apply race at the schema level; a
// violation surfaces as ErrAlreadyApplied.
func (r *JobRepository) CreateApplication(ctx context.Context, application *models.JobApplication) error {
	application.ID = uuid.New()
	application.Status = models.ApplicationPending

	sql, args, err := r.sb.Insert("job_applications").
		Columns("id", "job_id", "student_id", "cover_letter", "resume_url", "status").
		Values(application.ID, application.JobID, application.StudentID,
			application.CoverLetter, application.ResumeURL, application.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&application.CreatedAt, &application.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "job_applications_job_id_student_id_key") {
			logger.Warn().Str("jobID", application.JobID.String()).Str("studentID", application.StudentID.String()).Msg("Duplicate job application rejected")
			return apperrors.ErrAlreadyApplied
		}
		logger.Error().Err(err).Str("jobID", application.JobID.String()).Msg("Error executing create application query")
		return fmt.Errorf("error creating job application: %w", err)
	}

	logger.Info().Str("applicationID", application.ID.String()).Str("jobID", application.JobID.String()).Msg("Job application submitted")
	return nil
}

// ListApplicationsByStudent retrieves a page of the student's applications
// joined with job summaries, newest first, plus the total count.
func (r *JobRepository) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, status *models.ApplicationStatus, offset uint64, limit int) ([]models.JobApplication, int64, error) {
	where := squirrel.Eq{"ja.student_id": studentID}
	if status != nil {
		where["ja.status"] = *status
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("job_applications ja").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count applications query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	sql, args, err := r.sb.Select(
		"ja.id", "ja.job_id", "ja.student_id", "ja.cover_letter", "ja.resume_url",
		"ja.status", "ja.created_at", "ja.updated_at",
		"jp.id", "jp.recruiter_id", "jp.company_name", "jp.title", "jp.description",
		"jp.job_type", "jp.category", "jp.location", "jp.salary_min", "jp.salary_max",
		"jp.requirements", "jp.responsibilities", "jp.application_deadline",
		"jp.status", "jp.created_at", "jp.updated_at").
		From("job_applications ja").
		Join("job_postings jp ON jp.id = ja.job_id").
		Where(where).
		OrderBy("ja.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID.String()).Msg("Error executing list applications query")
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	applications := make([]models.JobApplication, 0)
	for rows.Next() {
		var a models.JobApplication
		var j models.JobPosting
		err := rows.Scan(
			&a.ID, &a.JobID, &a.StudentID, &a.CoverLetter, &a.ResumeURL,
			&a.Status, &a.CreatedAt, &a.UpdatedAt,
			&j.ID, &j.RecruiterID, &j.CompanyName, &j.Title, &j.Description,
			&j.JobType, &j.Category, &j.Location, &j.SalaryMin, &j.SalaryMax,
			&j.Requirements, &j.Responsibilities, &j.ApplicationDeadline,
			&j.Status, &j.CreatedAt, &j.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning application row: %w", err)
		}
		a.Job = &j
		applications = append(applications, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating application rows: %w", err)
	}

	return applications, total, nil
}

// UpdateApplicationStatus moves an application to a new status, scoped to
// applications on the recruiter's own postings.
func (r *JobRepository) UpdateApplicationStatus(ctx context.Context, applicationID, recruiterID uuid.UUID, status models.ApplicationStatus) (*models.JobApplication, error) {
	sql, args, err := r.sb.Update("job_applications").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": applicationID}).
		Where(squirrel.Expr("job_id IN (SELECT id FROM job_postings WHERE recruiter_id = ?)", recruiterID)).
		Suffix("RETURNING id, job_id, student_id, cover_letter, resume_url, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update application status query: %w", err)
	}

	var a models.JobApplication
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&a.ID, &a.JobID, &a.StudentID, &a.CoverLetter, &a.ResumeURL,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyApplicationMiss(ctx, applicationID)
		}
		logger.Error().Err(err).Str("applicationID", applicationID.String()).Msg("Error updating application status")
		return nil, fmt.Errorf("error updating application status: %w", err)
	}

	logger.Info().Str("applicationID", applicationID.String()).Str("status", string(status)).Msg("Application status updated")
	return &a, nil
}

func (r *JobRepository) classifyApplicationMiss(ctx context.Context, applicationID uuid.UUID) error {
	sql, args, err := r.sb.Select("1").
		From("job_applications").
		Where(squirrel.Eq{"id": applicationID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build application exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return fmt.Errorf("error checking application existence: %w", err)
	}
	if !exists {
		return apperrors.ErrApplicationNotFound
	}
	return apperrors.ErrNotJobOwner
}

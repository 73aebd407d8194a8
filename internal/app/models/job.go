package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus defines the job posting states
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
)

// ApplicationStatus defines the job application states
type ApplicationStatus string

const (
	ApplicationPending      ApplicationStatus = "pending"
	ApplicationInterviewing ApplicationStatus = "interviewing"
	ApplicationApproved     ApplicationStatus = "approved"
	ApplicationRejected     ApplicationStatus = "rejected"
)

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationPending, ApplicationInterviewing, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// JobPosting defines the job posting model backed by the 'job_postings'
// table. CompanyName is copied from the recruiter's profile at posting time,
// never taken from the request.
type JobPosting struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	RecruiterID         uuid.UUID  `json:"recruiterId" db:"recruiter_id"`
	CompanyName         string     `json:"companyName" db:"company_name"`
	Title               string     `json:"title" db:"title"`
	Description         string     `json:"description" db:"description"`
	JobType             string     `json:"jobType" db:"job_type"`
	Category            string     `json:"category" db:"category"`
	Location            string     `json:"location" db:"location"`
	SalaryMin           *int64     `json:"salaryMin,omitempty" db:"salary_min"`
	SalaryMax           *int64     `json:"salaryMax,omitempty" db:"salary_max"`
	Requirements        []string   `json:"requirements" db:"requirements"`
	Responsibilities    []string   `json:"responsibilities" db:"responsibilities"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty" db:"application_deadline"`
	Status              JobStatus  `json:"status" db:"status"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`
}

// JobApplication defines the application model backed by the
// 'job_applications' table. The (job_id, student_id) unique constraint keeps
// a student to at most one application per job.
type JobApplication struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	JobID       uuid.UUID         `json:"jobId" db:"job_id"`
	StudentID   uuid.UUID         `json:"studentId" db:"student_id"`
	CoverLetter *string           `json:"coverLetter,omitempty" db:"cover_letter"`
	ResumeURL   *string           `json:"resumeUrl,omitempty" db:"resume_url"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
	Job         *JobPosting       `json:"job,omitempty"` // relation, no db tag
}

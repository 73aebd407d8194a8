package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/auth"
)

type jobFixture struct {
	svc      JobService
	profiles *mockProfileStore
	store    *mockJobStore
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	profiles := newMockProfileStore()
	store := newMockJobStore()
	return &jobFixture{
		svc:      NewJobService(store, profiles),
		profiles: profiles,
		store:    store,
	}
}

func (f *jobFixture) addStudent(identity *auth.Identity) *models.Student {
	student := &models.Student{ID: uuid.New(), ProfileID: identity.ID}
	f.profiles.students[identity.ID] = student
	return student
}

func (f *jobFixture) addRecruiter(identity *auth.Identity, company string) *models.Recruiter {
	recruiter := &models.Recruiter{ID: uuid.New(), ProfileID: identity.ID, CompanyName: company}
	f.profiles.recruiters[identity.ID] = recruiter
	return recruiter
}

func postJobRequest() *dto.PostJobRequest {
	return &dto.PostJobRequest{
		Title:       "Backend engineer intern",
		Description: "Build and operate campus services",
		JobType:     "internship",
		Category:    "engineering",
		Location:    "Remote",
	}
}

func TestPostJob_CompanyFromRecruiterProfile(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	recruiter := f.addRecruiter(recruiterIdentity, "Acme Robotics")

	job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)

	assert.Equal(t, recruiter.ID, job.RecruiterID)
	assert.Equal(t, "Acme Robotics", job.CompanyName)
	assert.Equal(t, models.JobActive, job.Status)
}

func TestPostJob_WithoutRecruiterRowForbidden(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.svc.PostJob(context.Background(), testIdentity(models.RoleRecruiter), postJobRequest())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPostJob_SalaryRange(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")

	req := postJobRequest()
	req.SalaryMin = int64Ptr(90000)
	req.SalaryMax = int64Ptr(60000)

	_, err := f.svc.PostJob(context.Background(), recruiterIdentity, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPostJob_PastDeadline(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")

	deadline := time.Now().Add(-time.Hour)
	req := postJobRequest()
	req.ApplicationDeadline = &deadline

	_, err := f.svc.PostJob(context.Background(), recruiterIdentity, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListJobs_AnnotatesStudentApplications(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	first, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)
	second, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: first.ID})
	require.NoError(t, err)

	listing, err := f.svc.ListJobs(context.Background(), studentIdentity, &dto.JobFilter{})
	require.NoError(t, err)
	require.Len(t, listing.Jobs, 2)

	byID := map[uuid.UUID]dto.JobWithApplication{}
	for _, j := range listing.Jobs {
		byID[j.ID] = j
	}
	assert.True(t, byID[first.ID].HasApplied)
	require.NotNil(t, byID[first.ID].ApplicationStatus)
	assert.Equal(t, models.ApplicationPending, *byID[first.ID].ApplicationStatus)
	assert.False(t, byID[second.ID].HasApplied)
}

func TestListJobs_RecruiterGetsNoAnnotations(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")

	_, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)

	listing, err := f.svc.ListJobs(context.Background(), recruiterIdentity, &dto.JobFilter{})
	require.NoError(t, err)
	require.Len(t, listing.Jobs, 1)
	assert.False(t, listing.Jobs[0].HasApplied)
}

func TestListJobs_LocationFilterMatchesSubstring(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")

	remote := postJobRequest()
	remote.Location = "Remote (EU)"
	matched, err := f.svc.PostJob(context.Background(), recruiterIdentity, remote)
	require.NoError(t, err)

	onsite := postJobRequest()
	onsite.Location = "Istanbul"
	_, err = f.svc.PostJob(context.Background(), recruiterIdentity, onsite)
	require.NoError(t, err)

	listing, err := f.svc.ListJobs(context.Background(), recruiterIdentity, &dto.JobFilter{Location: strPtr("remote")})
	require.NoError(t, err)
	require.Len(t, listing.Jobs, 1)
	assert.Equal(t, matched.ID, listing.Jobs[0].ID)
}

func TestCloseJob_OwnerOnly(t *testing.T) {
	f := newJobFixture(t)
	owner := testIdentity(models.RoleRecruiter)
	f.addRecruiter(owner, "Acme Robotics")
	other := testIdentity(models.RoleRecruiter)
	f.addRecruiter(other, "Globex")

	job, err := f.svc.PostJob(context.Background(), owner, postJobRequest())
	require.NoError(t, err)

	_, err = f.svc.CloseJob(context.Background(), other, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	closed, err := f.svc.CloseJob(context.Background(), owner, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobClosed, closed.Status)
}

func TestApply_Success(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")
	studentIdentity := testIdentity(models.RoleStudent)
	student := f.addStudent(studentIdentity)

	job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)

	application, err := f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{
		JobID:       job.ID,
		CoverLetter: strPtr("I would like to apply."),
	})
	require.NoError(t, err)

	assert.Equal(t, student.ID, application.StudentID)
	assert.Equal(t, models.ApplicationPending, application.Status)
	require.NotNil(t, application.Job)
	assert.Equal(t, job.ID, application.Job.ID)
}

func TestApply_Duplicate(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
}

func TestApply_ClosedJob(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)
	_, err = f.svc.CloseJob(context.Background(), recruiterIdentity, job.ID)
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
	assert.ErrorIs(t, err, apperrors.ErrJobClosed)
}

func TestApply_PastDeadline(t *testing.T) {
	f := newJobFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	// Plant a posting whose deadline already passed.
	deadline := time.Now().Add(-time.Hour)
	job := &models.JobPosting{
		RecruiterID:         uuid.New(),
		CompanyName:         "Acme Robotics",
		Title:               "Expired role",
		Description:         "n/a",
		JobType:             "full_time",
		Category:            "engineering",
		Location:            "Remote",
		ApplicationDeadline: &deadline,
	}
	require.NoError(t, f.store.Create(context.Background(), job))

	_, err := f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
	assert.ErrorIs(t, err, apperrors.ErrJobClosed)
}

func TestApply_WithoutStudentRow(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")

	job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), testIdentity(models.RoleStudent), &dto.ApplyRequest{JobID: job.ID})
	assert.ErrorIs(t, err, apperrors.ErrStudentProfileNotFound)
}

func TestApply_JobNotFound(t *testing.T) {
	f := newJobFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	_, err := f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestListApplications_PaginatesNewestFirst(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	for i := 0; i < 3; i++ {
		job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
		require.NoError(t, err)
		_, err = f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
		require.NoError(t, err)
	}

	page, err := f.svc.ListApplications(context.Background(), studentIdentity, nil, 1, 2)
	require.NoError(t, err)

	assert.Len(t, page.Applications, 2)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.NotNil(t, page.Applications[0].Job)
}

func TestListApplications_StatusFilter(t *testing.T) {
	f := newJobFixture(t)
	recruiterIdentity := testIdentity(models.RoleRecruiter)
	f.addRecruiter(recruiterIdentity, "Acme Robotics")
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	job, err := f.svc.PostJob(context.Background(), recruiterIdentity, postJobRequest())
	require.NoError(t, err)
	application, err := f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateApplicationStatus(context.Background(), recruiterIdentity, application.ID, models.ApplicationInterviewing)
	require.NoError(t, err)

	interviewing := models.ApplicationInterviewing
	page, err := f.svc.ListApplications(context.Background(), studentIdentity, &interviewing, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Applications, 1)

	pending := models.ApplicationPending
	page, err = f.svc.ListApplications(context.Background(), studentIdentity, &pending, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Applications)
}

func TestUpdateApplicationStatus_OwnerOnly(t *testing.T) {
	f := newJobFixture(t)
	owner := testIdentity(models.RoleRecruiter)
	f.addRecruiter(owner, "Acme Robotics")
	other := testIdentity(models.RoleRecruiter)
	f.addRecruiter(other, "Globex")
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)

	job, err := f.svc.PostJob(context.Background(), owner, postJobRequest())
	require.NoError(t, err)
	application, err := f.svc.Apply(context.Background(), studentIdentity, &dto.ApplyRequest{JobID: job.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateApplicationStatus(context.Background(), other, application.ID, models.ApplicationApproved)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	updated, err := f.svc.UpdateApplicationStatus(context.Background(), owner, application.ID, models.ApplicationApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, updated.Status)
}

func TestUpdateApplicationStatus_NotFound(t *testing.T) {
	f := newJobFixture(t)
	owner := testIdentity(models.RoleRecruiter)
	f.addRecruiter(owner, "Acme Robotics")

	_, err := f.svc.UpdateApplicationStatus(context.Background(), owner, uuid.New(), models.ApplicationRejected)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

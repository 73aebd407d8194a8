// Package services holds the workflow logic between HTTP controllers and the
// repositories.
//
// Services defined in this package:
//   - ProfileService: first-login bootstrap, role redirect, profile reads
//   - AchievementService: submission, faculty decisions, credit accounting
//   - EventService: event creation, status changes, registration
//   - JobService: postings, applications, recruiter status updates
//
// Each service consumes narrow store interfaces satisfied by the concrete
// repositories, so tests swap in in-memory fakes.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
)

// ProfileStore is the profile persistence surface consumed by the services
type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpsertStudent(ctx context.Context, profileID uuid.UUID) error
	UpsertFaculty(ctx context.Context, profileID uuid.UUID) error
	UpsertRecruiter(ctx context.Context, profileID uuid.UUID, companyName string) error
	UpsertInstitution(ctx context.Context, ownerID uuid.UUID, name string) error
	GetStudentByProfileID(ctx context.Context, profileID uuid.UUID) (*models.Student, error)
	GetFacultyByProfileID(ctx context.Context, profileID uuid.UUID) (*models.Faculty, error)
	GetRecruiterByProfileID(ctx context.Context, profileID uuid.UUID) (*models.Recruiter, error)
	GetInstitutionByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Institution, error)
}

// AchievementStore is the achievement persistence surface
type AchievementStore interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	List(ctx context.Context, status *models.AchievementStatus, studentID *uuid.UUID) ([]models.Achievement, error)
	Decide(ctx context.Context, id, approverID uuid.UUID, status models.AchievementStatus, credits int, rejectionReason *string) (*models.Achievement, error)
	CategoryExists(ctx context.Context, id string) (bool, error)
	ListCategories(ctx context.Context) ([]models.AchievementCategory, error)
}

// EventStore is the event persistence surface
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, eventID, organizerID uuid.UUID, status models.EventStatus) (*models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID, status *models.EventStatus) ([]models.Event, error)
	ListOpen(ctx context.Context) ([]models.Event, error)
	GetParticipants(ctx context.Context, eventID uuid.UUID) ([]models.EventParticipant, error)
	CountParticipants(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error)
	RegisteredEventIDs(ctx context.Context, studentID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	Register(ctx context.Context, eventID, studentID uuid.UUID, now time.Time) (*models.EventParticipant, error)
}

// JobStore is the job board persistence surface
type JobStore interface {
	Create(ctx context.Context, job *models.JobPosting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	ListActive(ctx context.Context, jobType, category, location *string) ([]models.JobPosting, error)
	Close(ctx context.Context, jobID, recruiterID uuid.UUID) (*models.JobPosting, error)
	ApplicationStatusesByStudent(ctx context.Context, studentID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]models.ApplicationStatus, error)
	CreateApplication(ctx context.Context, application *models.JobApplication) error
	ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, status *models.ApplicationStatus, offset uint64, limit int) ([]models.JobApplication, int64, error)
	UpdateApplicationStatus(ctx context.Context, applicationID, recruiterID uuid.UUID, status models.ApplicationStatus) (*models.JobApplication, error)
}

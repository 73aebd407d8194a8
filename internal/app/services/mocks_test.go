package services

// Hand-written in-memory stores backing the service tests. They mirror the
// postgres repositories' observable behavior, including sentinel errors and
// the decide/register/apply conflict rules.

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
)

type mockProfileStore struct {
	profiles     map[uuid.UUID]*models.Profile
	students     map[uuid.UUID]*models.Student // keyed by profile id
	faculty      map[uuid.UUID]*models.Faculty
	recruiters   map[uuid.UUID]*models.Recruiter
	institutions map[uuid.UUID]*models.Institution

	upsertProfileErr error
	roleRowErr       error
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{
		profiles:     make(map[uuid.UUID]*models.Profile),
		students:     make(map[uuid.UUID]*models.Student),
		faculty:      make(map[uuid.UUID]*models.Faculty),
		recruiters:   make(map[uuid.UUID]*models.Recruiter),
		institutions: make(map[uuid.UUID]*models.Institution),
	}
}

func (m *mockProfileStore) UpsertProfile(_ context.Context, profile *models.Profile) error {
	if m.upsertProfileErr != nil {
		return m.upsertProfileErr
	}
	now := time.Now()
	if existing, ok := m.profiles[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

func (m *mockProfileStore) GetProfileByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	result := *profile
	return &result, nil
}

func (m *mockProfileStore) UpsertStudent(_ context.Context, profileID uuid.UUID) error {
	if m.roleRowErr != nil {
		return m.roleRowErr
	}
	if _, ok := m.students[profileID]; !ok {
		m.students[profileID] = &models.Student{ID: uuid.New(), ProfileID: profileID}
	}
	return nil
}

func (m *mockProfileStore) UpsertFaculty(_ context.Context, profileID uuid.UUID) error {
	if m.roleRowErr != nil {
		return m.roleRowErr
	}
	if _, ok := m.faculty[profileID]; !ok {
		m.faculty[profileID] = &models.Faculty{ID: uuid.New(), ProfileID: profileID}
	}
	return nil
}

func (m *mockProfileStore) UpsertRecruiter(_ context.Context, profileID uuid.UUID, companyName string) error {
	if m.roleRowErr != nil {
		return m.roleRowErr
	}
	if _, ok := m.recruiters[profileID]; !ok {
		m.recruiters[profileID] = &models.Recruiter{ID: uuid.New(), ProfileID: profileID, CompanyName: companyName}
	}
	return nil
}

func (m *mockProfileStore) UpsertInstitution(_ context.Context, ownerID uuid.UUID, name string) error {
	if m.roleRowErr != nil {
		return m.roleRowErr
	}
	if _, ok := m.institutions[ownerID]; !ok {
		m.institutions[ownerID] = &models.Institution{ID: uuid.New(), OwnerID: ownerID, Name: name}
	}
	return nil
}

func (m *mockProfileStore) GetStudentByProfileID(_ context.Context, profileID uuid.UUID) (*models.Student, error) {
	student, ok := m.students[profileID]
	if !ok {
		return nil, apperrors.ErrStudentProfileNotFound
	}
	result := *student
	return &result, nil
}

func (m *mockProfileStore) GetFacultyByProfileID(_ context.Context, profileID uuid.UUID) (*models.Faculty, error) {
	faculty, ok := m.faculty[profileID]
	if !ok {
		return nil, apperrors.ErrFacultyProfileNotFound
	}
	result := *faculty
	return &result, nil
}

func (m *mockProfileStore) GetRecruiterByProfileID(_ context.Context, profileID uuid.UUID) (*models.Recruiter, error) {
	recruiter, ok := m.recruiters[profileID]
	if !ok {
		return nil, apperrors.ErrRecruiterProfileNotFound
	}
	result := *recruiter
	return &result, nil
}

func (m *mockProfileStore) GetInstitutionByOwnerID(_ context.Context, ownerID uuid.UUID) (*models.Institution, error) {
	institution, ok := m.institutions[ownerID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	result := *institution
	return &result, nil
}

func (m *mockProfileStore) studentByID(studentID uuid.UUID) *models.Student {
	for _, s := range m.students {
		if s.ID == studentID {
			return s
		}
	}
	return nil
}

type mockAchievementStore struct {
	achievements map[uuid.UUID]*models.Achievement
	categories   map[string]models.AchievementCategory
	profileStore *mockProfileStore
}

func newMockAchievementStore(profileStore *mockProfileStore) *mockAchievementStore {
	return &mockAchievementStore{
		achievements: make(map[uuid.UUID]*models.Achievement),
		categories: map[string]models.AchievementCategory{
			"academic":  {ID: "academic", Name: "Academic"},
			"technical": {ID: "technical", Name: "Technical"},
		},
		profileStore: profileStore,
	}
}

func (m *mockAchievementStore) Create(_ context.Context, achievement *models.Achievement) error {
	achievement.ID = uuid.New()
	achievement.Status = models.AchievementPending
	achievement.Credits = 0
	if achievement.SkillTags == nil {
		achievement.SkillTags = []string{}
	}
	now := time.Now()
	achievement.CreatedAt = now
	achievement.UpdatedAt = now
	stored := *achievement
	m.achievements[achievement.ID] = &stored
	return nil
}

func (m *mockAchievementStore) List(_ context.Context, status *models.AchievementStatus, studentID *uuid.UUID) ([]models.Achievement, error) {
	result := make([]models.Achievement, 0)
	for _, a := range m.achievements {
		if status != nil && a.Status != *status {
			continue
		}
		if studentID != nil && a.StudentID != *studentID {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockAchievementStore) Decide(_ context.Context, id, approverID uuid.UUID, status models.AchievementStatus, credits int, rejectionReason *string) (*models.Achievement, error) {
	achievement, ok := m.achievements[id]
	if !ok {
		return nil, apperrors.ErrAchievementNotFound
	}
	if achievement.Status != models.AchievementPending {
		return nil, apperrors.ErrAchievementAlreadyDecided
	}

	now := time.Now()
	achievement.Status = status
	achievement.UpdatedAt = now
	if status == models.AchievementApproved {
		achievement.Credits = credits
		achievement.ApprovedBy = &approverID
		achievement.ApprovedAt = &now
		if student := m.profileStore.studentByID(achievement.StudentID); student != nil {
			student.TotalCredits += credits
			student.AchievementCount++
		}
	} else {
		achievement.RejectionReason = rejectionReason
	}

	result := *achievement
	return &result, nil
}

func (m *mockAchievementStore) CategoryExists(_ context.Context, id string) (bool, error) {
	_, ok := m.categories[id]
	return ok, nil
}

func (m *mockAchievementStore) ListCategories(_ context.Context) ([]models.AchievementCategory, error) {
	result := make([]models.AchievementCategory, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type mockEventStore struct {
	events       map[uuid.UUID]*models.Event
	participants map[uuid.UUID][]models.EventParticipant // keyed by event id
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{
		events:       make(map[uuid.UUID]*models.Event),
		participants: make(map[uuid.UUID][]models.EventParticipant),
	}
}

func (m *mockEventStore) Create(_ context.Context, event *models.Event) error {
	event.ID = uuid.New()
	event.Status = models.EventUpcoming
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	stored := *event
	m.events[event.ID] = &stored
	return nil
}

func (m *mockEventStore) UpdateStatus(_ context.Context, eventID, organizerID uuid.UUID, status models.EventStatus) (*models.Event, error) {
	event, ok := m.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.ErrNotEventOrganizer
	}
	event.Status = status
	event.UpdatedAt = time.Now()
	result := *event
	return &result, nil
}

func (m *mockEventStore) ListByOrganizer(_ context.Context, organizerID uuid.UUID, status *models.EventStatus) ([]models.Event, error) {
	result := make([]models.Event, 0)
	for _, e := range m.events {
		if e.OrganizerID != organizerID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEventStore) ListOpen(_ context.Context) ([]models.Event, error) {
	result := make([]models.Event, 0)
	for _, e := range m.events {
		if e.Status == models.EventUpcoming {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockEventStore) GetParticipants(_ context.Context, eventID uuid.UUID) ([]models.EventParticipant, error) {
	return append([]models.EventParticipant(nil), m.participants[eventID]...), nil
}

func (m *mockEventStore) CountParticipants(_ context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(eventIDs))
	for _, id := range eventIDs {
		if n := len(m.participants[id]); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *mockEventStore) RegisteredEventIDs(_ context.Context, studentID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	registered := make(map[uuid.UUID]bool)
	for _, id := range eventIDs {
		for _, p := range m.participants[id] {
			if p.StudentID == studentID {
				registered[id] = true
			}
		}
	}
	return registered, nil
}

func (m *mockEventStore) Register(_ context.Context, eventID, studentID uuid.UUID, now time.Time) (*models.EventParticipant, error) {
	event, ok := m.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if event.Status != models.EventUpcoming {
		return nil, apperrors.ErrEventNotOpen
	}
	if now.After(event.RegistrationDeadline) {
		return nil, apperrors.ErrRegistrationClosed
	}
	if len(m.participants[eventID]) >= event.MaxParticipants {
		return nil, apperrors.ErrEventFull
	}
	for _, p := range m.participants[eventID] {
		if p.StudentID == studentID {
			return nil, apperrors.ErrAlreadyRegistered
		}
	}

	participant := models.EventParticipant{
		ID:           uuid.New(),
		EventID:      eventID,
		StudentID:    studentID,
		RegisteredAt: now,
	}
	m.participants[eventID] = append(m.participants[eventID], participant)
	return &participant, nil
}

type mockJobStore struct {
	jobs         map[uuid.UUID]*models.JobPosting
	applications map[uuid.UUID]*models.JobApplication
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{
		jobs:         make(map[uuid.UUID]*models.JobPosting),
		applications: make(map[uuid.UUID]*models.JobApplication),
	}
}

func (m *mockJobStore) Create(_ context.Context, job *models.JobPosting) error {
	job.ID = uuid.New()
	job.Status = models.JobActive
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	stored := *job
	m.jobs[job.ID] = &stored
	return nil
}

func (m *mockJobStore) GetByID(_ context.Context, id uuid.UUID) (*models.JobPosting, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	result := *job
	return &result, nil
}

func (m *mockJobStore) ListActive(_ context.Context, jobType, category, location *string) ([]models.JobPosting, error) {
	result := make([]models.JobPosting, 0)
	for _, j := range m.jobs {
		if j.Status != models.JobActive {
			continue
		}
		if jobType != nil && j.JobType != *jobType {
			continue
		}
		if category != nil && j.Category != *category {
			continue
		}
		// The postgres store matches location with ILIKE '%...%'.
		if location != nil && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(*location)) {
			continue
		}
		result = append(result, *j)
	}
	return result, nil
}

func (m *mockJobStore) Close(_ context.Context, jobID, recruiterID uuid.UUID) (*models.JobPosting, error) {
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	if job.RecruiterID != recruiterID {
		return nil, apperrors.ErrNotJobOwner
	}
	job.Status = models.JobClosed
	job.UpdatedAt = time.Now()
	result := *job
	return &result, nil
}

func (m *mockJobStore) ApplicationStatusesByStudent(_ context.Context, studentID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]models.ApplicationStatus, error) {
	statuses := make(map[uuid.UUID]models.ApplicationStatus)
	for _, a := range m.applications {
		if a.StudentID != studentID {
			continue
		}
		for _, id := range jobIDs {
			if a.JobID == id {
				statuses[id] = a.Status
			}
		}
	}
	return statuses, nil
}

func (m *mockJobStore) CreateApplication(_ context.Context, application *models.JobApplication) error {
	for _, a := range m.applications {
		if a.JobID == application.JobID && a.StudentID == application.StudentID {
			return apperrors.ErrAlreadyApplied
		}
	}
	application.ID = uuid.New()
	application.Status = models.ApplicationPending
	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now
	stored := *application
	m.applications[application.ID] = &stored
	return nil
}

func (m *mockJobStore) ListApplicationsByStudent(_ context.Context, studentID uuid.UUID, status *models.ApplicationStatus, offset uint64, limit int) ([]models.JobApplication, int64, error) {
	matching := make([]models.JobApplication, 0)
	for _, a := range m.applications {
		if a.StudentID != studentID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		entry := *a
		if job, ok := m.jobs[a.JobID]; ok {
			jobCopy := *job
			entry.Job = &jobCopy
		}
		matching = append(matching, entry)
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].CreatedAt.After(matching[j].CreatedAt) })

	total := int64(len(matching))
	if offset >= uint64(len(matching)) {
		return []models.JobApplication{}, total, nil
	}
	matching = matching[offset:]
	if limit < len(matching) {
		matching = matching[:limit]
	}
	return matching, total, nil
}

func (m *mockJobStore) UpdateApplicationStatus(_ context.Context, applicationID, recruiterID uuid.UUID, status models.ApplicationStatus) (*models.JobApplication, error) {
	application, ok := m.applications[applicationID]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	job, ok := m.jobs[application.JobID]
	if !ok || job.RecruiterID != recruiterID {
		return nil, apperrors.ErrNotJobOwner
	}
	application.Status = status
	application.UpdatedAt = time.Now()
	result := *application
	return &result, nil
}

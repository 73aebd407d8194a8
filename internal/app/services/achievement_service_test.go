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

type achievementFixture struct {
	svc      AchievementService
	profiles *mockProfileStore
	store    *mockAchievementStore
}

func newAchievementFixture(t *testing.T) *achievementFixture {
	t.Helper()
	profiles := newMockProfileStore()
	store := newMockAchievementStore(profiles)
	return &achievementFixture{
		svc:      NewAchievementService(store, profiles),
		profiles: profiles,
		store:    store,
	}
}

func (f *achievementFixture) addStudent(identity *auth.Identity) *models.Student {
	student := &models.Student{ID: uuid.New(), ProfileID: identity.ID}
	f.profiles.students[identity.ID] = student
	return student
}

func (f *achievementFixture) addFaculty(identity *auth.Identity, canApprove bool, maxCredits *int) *models.Faculty {
	faculty := &models.Faculty{
		ID:                     uuid.New(),
		ProfileID:              identity.ID,
		CanApproveAchievements: canApprove,
		MaxCreditValue:         maxCredits,
	}
	f.profiles.faculty[identity.ID] = faculty
	return faculty
}

func submitRequest() *dto.SubmitAchievementRequest {
	return &dto.SubmitAchievementRequest{
		CategoryID:   "academic",
		Title:        "Regional math olympiad, first place",
		DateAchieved: time.Now().AddDate(0, -1, 0),
		SkillTags:    []string{"mathematics"},
	}
}

func intPtr(n int) *int          { return &n }
func strPtr(s string) *string    { return &s }
func int64Ptr(n int64) *int64    { return &n }

func TestSubmit_CreatesPendingAchievement(t *testing.T) {
	f := newAchievementFixture(t)
	identity := testIdentity(models.RoleStudent)
	student := f.addStudent(identity)

	achievement, err := f.svc.Submit(context.Background(), identity, submitRequest())
	require.NoError(t, err)

	assert.Equal(t, student.ID, achievement.StudentID)
	assert.Equal(t, models.AchievementPending, achievement.Status)
	assert.Zero(t, achievement.Credits)
}

func TestSubmit_TrimsTitle(t *testing.T) {
	f := newAchievementFixture(t)
	identity := testIdentity(models.RoleStudent)
	f.addStudent(identity)

	req := submitRequest()
	req.Title = "  padded title  "

	achievement, err := f.svc.Submit(context.Background(), identity, req)
	require.NoError(t, err)
	assert.Equal(t, "padded title", achievement.Title)
}

func TestSubmit_UnknownCategory(t *testing.T) {
	f := newAchievementFixture(t)
	identity := testIdentity(models.RoleStudent)
	f.addStudent(identity)

	req := submitRequest()
	req.CategoryID = "nonexistent"

	_, err := f.svc.Submit(context.Background(), identity, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSubmit_WithoutStudentRow(t *testing.T) {
	f := newAchievementFixture(t)

	_, err := f.svc.Submit(context.Background(), testIdentity(models.RoleStudent), submitRequest())
	assert.ErrorIs(t, err, apperrors.ErrStudentProfileNotFound)
}

func TestDecide_ApproveCreditsStudent(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	student := f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	faculty := f.addFaculty(facultyIdentity, true, intPtr(10))

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	decision, err := f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(8),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AchievementApproved, decision.Achievement.Status)
	assert.Equal(t, 8, decision.Achievement.Credits)
	// approved_by holds a profiles(id) value, not the faculty row's own key.
	require.NotNil(t, decision.Achievement.ApprovedBy)
	assert.Equal(t, faculty.ProfileID, *decision.Achievement.ApprovedBy)
	assert.Equal(t, facultyIdentity.ID, *decision.Achievement.ApprovedBy)
	assert.NotEqual(t, faculty.ID, *decision.Achievement.ApprovedBy)
	assert.Equal(t, "Achievement approved for 8 credits", decision.Message)

	// Counters move in the same decision.
	assert.Equal(t, 8, f.profiles.students[studentIdentity.ID].TotalCredits)
	assert.Equal(t, 1, f.profiles.students[studentIdentity.ID].AchievementCount)
	_ = student
}

func TestDecide_CreditCeiling(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, intPtr(10))

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	// 15 exceeds the ceiling of 10.
	_, err = f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(15),
	})
	assert.ErrorIs(t, err, apperrors.ErrCreditCeilingExceeded)

	// The achievement is still pending, so a conforming award goes through.
	decision, err := f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, decision.Achievement.Credits)
	assert.Equal(t, 8, f.profiles.students[studentIdentity.ID].TotalCredits)
}

func TestDecide_NoCeilingMeansAnyAmount(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, nil)

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	decision, err := f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(500),
	})
	require.NoError(t, err)
	assert.Equal(t, 500, decision.Achievement.Credits)
}

func TestDecide_ApprovalNotPermitted(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, false, nil)

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(5),
	})
	assert.ErrorIs(t, err, apperrors.ErrApprovalNotPermitted)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, nil)

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(5),
	})
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:          models.AchievementRejected,
		RejectionReason: strPtr("changed my mind"),
	})
	assert.ErrorIs(t, err, apperrors.ErrAchievementAlreadyDecided)

	// Credits were awarded exactly once.
	assert.Equal(t, 5, f.profiles.students[studentIdentity.ID].TotalCredits)
	assert.Equal(t, 1, f.profiles.students[studentIdentity.ID].AchievementCount)
}

func TestDecide_RejectRequiresReason(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, nil)

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:          models.AchievementRejected,
		RejectionReason: strPtr("   "),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDecide_RejectLeavesCountersAlone(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, nil)

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	decision, err := f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status:          models.AchievementRejected,
		RejectionReason: strPtr("no supporting evidence"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AchievementRejected, decision.Achievement.Status)
	assert.Zero(t, f.profiles.students[studentIdentity.ID].TotalCredits)
	assert.Zero(t, f.profiles.students[studentIdentity.ID].AchievementCount)
}

func TestDecide_ApproveRequiresCredits(t *testing.T) {
	f := newAchievementFixture(t)
	studentIdentity := testIdentity(models.RoleStudent)
	f.addStudent(studentIdentity)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, nil)

	achievement, err := f.svc.Submit(context.Background(), studentIdentity, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), facultyIdentity, achievement.ID, &dto.DecideAchievementRequest{
		Status: models.AchievementApproved,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestList_StudentSeesOnlyOwn(t *testing.T) {
	f := newAchievementFixture(t)

	alice := testIdentity(models.RoleStudent)
	f.addStudent(alice)
	bob := testIdentity(models.RoleStudent)
	f.addStudent(bob)

	_, err := f.svc.Submit(context.Background(), alice, submitRequest())
	require.NoError(t, err)
	_, err = f.svc.Submit(context.Background(), bob, submitRequest())
	require.NoError(t, err)

	achievements, err := f.svc.List(context.Background(), alice, &dto.AchievementFilter{})
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, f.profiles.students[alice.ID].ID, achievements[0].StudentID)
}

func TestList_StudentCannotListOthers(t *testing.T) {
	f := newAchievementFixture(t)

	alice := testIdentity(models.RoleStudent)
	f.addStudent(alice)
	bob := testIdentity(models.RoleStudent)
	bobStudent := f.addStudent(bob)

	_, err := f.svc.List(context.Background(), alice, &dto.AchievementFilter{StudentID: &bobStudent.ID})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestList_StudentWithoutRowGetsEmpty(t *testing.T) {
	f := newAchievementFixture(t)

	achievements, err := f.svc.List(context.Background(), testIdentity(models.RoleStudent), &dto.AchievementFilter{})
	require.NoError(t, err)
	assert.Empty(t, achievements)
}

func TestList_FacultySeesAllWithStatusFilter(t *testing.T) {
	f := newAchievementFixture(t)

	alice := testIdentity(models.RoleStudent)
	f.addStudent(alice)
	facultyIdentity := testIdentity(models.RoleFaculty)
	f.addFaculty(facultyIdentity, true, nil)

	first, err := f.svc.Submit(context.Background(), alice, submitRequest())
	require.NoError(t, err)
	_, err = f.svc.Submit(context.Background(), alice, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Decide(context.Background(), facultyIdentity, first.ID, &dto.DecideAchievementRequest{
		Status:  models.AchievementApproved,
		Credits: intPtr(3),
	})
	require.NoError(t, err)

	pending := models.AchievementPending
	achievements, err := f.svc.List(context.Background(), facultyIdentity, &dto.AchievementFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, achievements, 1)
}

func TestList_RecruiterForbidden(t *testing.T) {
	f := newAchievementFixture(t)

	_, err := f.svc.List(context.Background(), testIdentity(models.RoleRecruiter), &dto.AchievementFilter{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/auth"
)

// AchievementService defines the interface for the achievement lifecycle
type AchievementService interface {
	Submit(ctx context.Context, identity *auth.Identity, req *dto.SubmitAchievementRequest) (*models.Achievement, error)
	Decide(ctx context.Context, identity *auth.Identity, achievementID uuid.UUID, req *dto.DecideAchievementRequest) (*dto.DecisionResponse, error)
	List(ctx context.Context, identity *auth.Identity, filter *dto.AchievementFilter) ([]models.Achievement, error)
	ListCategories(ctx context.Context) ([]models.AchievementCategory, error)
}

// achievementServiceImpl implements AchievementService
type achievementServiceImpl struct {
	achievementRepo AchievementStore
	profileRepo     ProfileStore
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(achievementRepo AchievementStore, profileRepo ProfileStore) AchievementService {
	return &achievementServiceImpl{
		achievementRepo: achievementRepo,
		profileRepo:     profileRepo,
	}
}

// Submit records a student's achievement claim. The student row is resolved
// from the authenticated identity, never from the payload, so a student can
// only submit for themselves. Submissions always enter pending with zero
// credits.
func (s *achievementServiceImpl) Submit(ctx context.Context, identity *auth.Identity, req *dto.SubmitAchievementRequest) (*models.Achievement, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if req.DateAchieved.IsZero() {
		return nil, apperrors.NewValidationError("dateAchieved is required")
	}

	student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	known, err := s.achievementRepo.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error checking achievement category: %w", err)
	}
	if !known {
		return nil, apperrors.NewValidationError("unknown achievement category")
	}

	achievement := &models.Achievement{
		StudentID:    student.ID,
		CategoryID:   req.CategoryID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		DateAchieved: req.DateAchieved,
		SkillTags:    req.SkillTags,
	}
	if req.IsPublic != nil {
		achievement.IsPublic = *req.IsPublic
	}

	if err := s.achievementRepo.Create(ctx, achievement); err != nil {
		return nil, err
	}

	return achievement, nil
}

// Decide applies a faculty decision to a pending achievement. The caller's
// approval permission is a record on their own faculty row: the
// can_approve_achievements flag gates the operation, max_credit_value (when
// set) caps awarded credits. A decision on an already-decided achievement
// surfaces as a conflict rather than silently succeeding. The approver is
// recorded as the faculty member's profile id, matching the foreign key on
// achievements.approved_by.
func (s *achievementServiceImpl) Decide(ctx context.Context, identity *auth.Identity, achievementID uuid.UUID, req *dto.DecideAchievementRequest) (*dto.DecisionResponse, error) {
	faculty, err := s.profileRepo.GetFacultyByProfileID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	if !faculty.CanApproveAchievements {
		return nil, apperrors.ErrApprovalNotPermitted
	}

	credits := 0
	var rejectionReason *string

	switch req.Status {
	case models.AchievementApproved:
		if req.Credits == nil {
			return nil, apperrors.NewValidationError("credits are required when approving")
		}
		if *req.Credits < 0 {
			return nil, apperrors.NewValidationError("credits must be non-negative")
		}
		if faculty.MaxCreditValue != nil && *req.Credits > *faculty.MaxCreditValue {
			return nil, apperrors.ErrCreditCeilingExceeded
		}
		credits = *req.Credits

	case models.AchievementRejected:
		if req.RejectionReason == nil || strings.TrimSpace(*req.RejectionReason) == "" {
			return nil, apperrors.NewValidationError("a rejection reason is required")
		}
		rejectionReason = req.RejectionReason

	default:
		return nil, apperrors.NewValidationError("status must be approved or rejected")
	}

	achievement, err := s.achievementRepo.Decide(ctx, achievementID, faculty.ProfileID, req.Status, credits, rejectionReason)
	if err != nil {
		return nil, err
	}

	message := "Achievement rejected"
	if req.Status == models.AchievementApproved {
		message = fmt.Sprintf("Achievement approved for %d credits", credits)
	}

	return &dto.DecisionResponse{
		Achievement: achievement,
		Message:     message,
	}, nil
}

// List returns achievements scoped by the caller's role: an explicit student
// filter wins, students are otherwise locked to their own rows, faculty and
// institution admins see everything. Recruiters have no achievement access.
func (s *achievementServiceImpl) List(ctx context.Context, identity *auth.Identity, filter *dto.AchievementFilter) ([]models.Achievement, error) {
	studentID := filter.StudentID

	switch identity.Role {
	case models.RoleStudent:
		if studentID == nil {
			student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
			if err != nil {
				if isMissingRoleRow(err) {
					// Incomplete profile: nothing to list yet.
					return []models.Achievement{}, nil
				}
				return nil, err
			}
			studentID = &student.ID
		} else {
			// A student may only ever see their own achievements.
			student, err := s.profileRepo.GetStudentByProfileID(ctx, identity.ID)
			if err != nil || student.ID != *studentID {
				return nil, apperrors.NewForbiddenError("students may only list their own achievements")
			}
		}
	case models.RoleFaculty, models.RoleInstitutionAdmin:
		// Unscoped browsing, optionally narrowed by the explicit filter.
	default:
		return nil, apperrors.NewForbiddenError("role cannot list achievements")
	}

	return s.achievementRepo.List(ctx, filter.Status, studentID)
}

// ListCategories returns the seeded achievement categories
func (s *achievementServiceImpl) ListCategories(ctx context.Context) ([]models.AchievementCategory, error) {
	return s.achievementRepo.ListCategories(ctx)
}

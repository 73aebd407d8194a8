package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/auth"
)

// ProfileService defines the interface for the first-login bootstrap workflow
// and profile reads
type ProfileService interface {
	Bootstrap(ctx context.Context, identity *auth.Identity) (*dto.BootstrapResponse, error)
	GetProfile(ctx context.Context, identity *auth.Identity) (*dto.ProfileResponse, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profileRepo ProfileStore
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo ProfileStore, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Bootstrap materializes the caller's profile rows and computes the dashboard
// redirect. The profile upsert is the only step that can fail the call: the
// role-specific upsert is best-effort so a store hiccup never locks a user
// out of their dashboard. Safe to call repeatedly; every write is an upsert.
func (s *profileServiceImpl) Bootstrap(ctx context.Context, identity *auth.Identity) (*dto.BootstrapResponse, error) {
	profile := &models.Profile{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     identity.Role,
	}

	if err := s.profileRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("error bootstrapping profile: %w", err)
	}

	if err := s.upsertRoleRow(ctx, identity); err != nil {
		// Downstream reads treat the missing role row as an incomplete
		// profile, so the user still lands on a dashboard.
		s.logger.Error().Err(err).
			Str("profileID", identity.ID.String()).
			Str("role", string(identity.Role)).
			Msg("Failed to create role-specific row during bootstrap")
	}

	return &dto.BootstrapResponse{
		ProfileID:   profile.ID,
		Role:        profile.Role,
		RedirectURL: profile.Role.DashboardPath(),
	}, nil
}

func (s *profileServiceImpl) upsertRoleRow(ctx context.Context, identity *auth.Identity) error {
	switch identity.Role {
	case models.RoleStudent:
		return s.profileRepo.UpsertStudent(ctx, identity.ID)
	case models.RoleFaculty:
		return s.profileRepo.UpsertFaculty(ctx, identity.ID)
	case models.RoleRecruiter:
		return s.profileRepo.UpsertRecruiter(ctx, identity.ID, identity.FullName)
	case models.RoleInstitutionAdmin:
		return s.profileRepo.UpsertInstitution(ctx, identity.ID, identity.FullName)
	default:
		return fmt.Errorf("no role-specific row for role %q", identity.Role)
	}
}

// GetProfile reads the caller's profile plus its role-specific row. A missing
// profile is NotFound; a missing role row only leaves RoleData nil.
func (s *profileServiceImpl) GetProfile(ctx context.Context, identity *auth.Identity) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	response := &dto.ProfileResponse{Profile: profile}

	roleData, err := s.roleData(ctx, profile)
	if err != nil {
		if isMissingRoleRow(err) {
			s.logger.Warn().
				Str("profileID", profile.ID.String()).
				Str("role", string(profile.Role)).
				Msg("Profile has no role-specific row yet")
			return response, nil
		}
		return nil, err
	}

	response.RoleData = roleData
	return response, nil
}

func (s *profileServiceImpl) roleData(ctx context.Context, profile *models.Profile) (interface{}, error) {
	switch profile.Role {
	case models.RoleStudent:
		return s.profileRepo.GetStudentByProfileID(ctx, profile.ID)
	case models.RoleFaculty:
		return s.profileRepo.GetFacultyByProfileID(ctx, profile.ID)
	case models.RoleRecruiter:
		return s.profileRepo.GetRecruiterByProfileID(ctx, profile.ID)
	case models.RoleInstitutionAdmin:
		return s.profileRepo.GetInstitutionByOwnerID(ctx, profile.ID)
	default:
		return nil, nil
	}
}

func isMissingRoleRow(err error) bool {
	return errors.Is(err, apperrors.ErrStudentProfileNotFound) ||
		errors.Is(err, apperrors.ErrFacultyProfileNotFound) ||
		errors.Is(err, apperrors.ErrRecruiterProfileNotFound) ||
		errors.Is(err, apperrors.ErrResourceNotFound)
}

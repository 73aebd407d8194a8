package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/logger"
)

// ProfileRepository handles profile and role-specific row database operations
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertProfile inserts or updates the base profile row keyed by the
// identity's id, keeping repeated bootstrap calls idempotent.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	sql, args, err := r.sb.Insert("profiles").
		Columns("id", "email", "full_name", "role").
		Values(profile.ID, profile.Email, profile.FullName, profile.Role).
		Suffix(`ON CONFLICT (id) DO UPDATE
			SET email = EXCLUDED.email,
			    full_name = EXCLUDED.full_name,
			    role = EXCLUDED.role,
			    updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert profile SQL")
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("profileID", profile.ID.String()).Msg("Error executing upsert profile query")
		return fmt.Errorf("error upserting profile: %w", err)
	}

	return nil
}

// GetProfileByID retrieves a profile by its id
func (r *ProfileRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	sql, args, err := r.sb.Select("id", "email", "full_name", "role", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", id.String()).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}

// UpsertStudent lazily creates the student row for a profile. The conflict
// key is profile_id, so an existing row is left untouched (counters included).
func (r *ProfileRepository) UpsertStudent(ctx context.Context, profileID uuid.UUID) error {
	sql, args, err := r.sb.Insert("students").
		Columns("id", "profile_id").
		Values(uuid.New(), profileID).
		Suffix("ON CONFLICT (profile_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("profileID", profileID.String()).Msg("Error executing upsert student query")
		return fmt.Errorf("error upserting student: %w", err)
	}

	return nil
}

// UpsertFaculty lazily creates the faculty row for a profile
func (r *ProfileRepository) UpsertFaculty(ctx context.Context, profileID uuid.UUID) error {
	sql, args, err := r.sb.Insert("faculty").
		Columns("id", "profile_id").
		Values(uuid.New(), profileID).
		Suffix("ON CONFLICT (profile_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert faculty query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("profileID", profileID.String()).Msg("Error executing upsert faculty query")
		return fmt.Errorf("error upserting faculty: %w", err)
	}

	return nil
}

// UpsertRecruiter lazily creates the recruiter row for a profile. The company
// name starts from the profile's display name and is edited later.
func (r *ProfileRepository) UpsertRecruiter(ctx context.Context, profileID uuid.UUID, companyName string) error {
	sql, args, err := r.sb.Insert("recruiters").
		Columns("id", "profile_id", "company_name").
		Values(uuid.New(), profileID, companyName).
		Suffix("ON CONFLICT (profile_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert recruiter query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("profileID", profileID.String()).Msg("Error executing upsert recruiter query")
		return fmt.Errorf("error upserting recruiter: %w", err)
	}

	return nil
}

// UpsertInstitution lazily creates the institution row owned by an admin
// profile. An admin owns exactly one institution, so owner_id is the conflict
// key.
func (r *ProfileRepository) UpsertInstitution(ctx context.Context, ownerID uuid.UUID, name string) error {
	sql, args, err := r.sb.Insert("institutions").
		Columns("id", "owner_id", "name").
		Values(uuid.New(), ownerID, name).
		Suffix("ON CONFLICT (owner_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert institution query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("ownerID", ownerID.String()).Msg("Error executing upsert institution query")
		return fmt.Errorf("error upserting institution: %w", err)
	}

	return nil
}

// GetStudentByProfileID retrieves a student row by its owning profile
func (r *ProfileRepository) GetStudentByProfileID(ctx context.Context, profileID uuid.UUID) (*models.Student, error) {
	var student models.Student
	sql, args, err := r.sb.Select(
		"id", "profile_id", "roll_number", "department", "year_of_study",
		"total_credits", "achievement_count", "created_at").
		From("students").
		Where(squirrel.Eq{"profile_id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.ProfileID, &student.RollNumber, &student.Department,
		&student.YearOfStudy, &student.TotalCredits, &student.AchievementCount, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", profileID.String()).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetFacultyByProfileID retrieves a faculty row by its owning profile
func (r *ProfileRepository) GetFacultyByProfileID(ctx context.Context, profileID uuid.UUID) (*models.Faculty, error) {
	var faculty models.Faculty
	sql, args, err := r.sb.Select(
		"id", "profile_id", "department", "designation",
		"can_approve_achievements", "max_credit_value", "created_at").
		From("faculty").
		Where(squirrel.Eq{"profile_id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&faculty.ID, &faculty.ProfileID, &faculty.Department, &faculty.Designation,
		&faculty.CanApproveAchievements, &faculty.MaxCreditValue, &faculty.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", profileID.String()).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error retrieving faculty: %w", err)
	}

	return &faculty, nil
}

// GetRecruiterByProfileID retrieves a recruiter row by its owning profile
func (r *ProfileRepository) GetRecruiterByProfileID(ctx context.Context, profileID uuid.UUID) (*models.Recruiter, error) {
	var recruiter models.Recruiter
	sql, args, err := r.sb.Select(
		"id", "profile_id", "company_name", "company_website", "created_at").
		From("recruiters").
		Where(squirrel.Eq{"profile_id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get recruiter query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&recruiter.ID, &recruiter.ProfileID, &recruiter.CompanyName,
		&recruiter.CompanyWebsite, &recruiter.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecruiterProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", profileID.String()).Msg("Error scanning recruiter row")
		return nil, fmt.Errorf("error retrieving recruiter: %w", err)
	}

	return &recruiter, nil
}

// GetInstitutionByOwnerID retrieves the institution owned by an admin profile
func (r *ProfileRepository) GetInstitutionByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Institution, error) {
	var institution models.Institution
	sql, args, err := r.sb.Select("id", "owner_id", "name", "code", "created_at").
		From("institutions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get institution query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&institution.ID, &institution.OwnerID, &institution.Name,
		&institution.Code, &institution.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("ownerID", ownerID.String()).Msg("Error scanning institution row")
		return nil, fmt.Errorf("error retrieving institution: %w", err)
	}

	return &institution, nil
}

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
	"github.com/deniz/campuslink/internal/db"
	"github.com/deniz/campuslink/internal/pkg/apperrors"
	"github.com/deniz/campuslink/internal/pkg/dberrors"
	"github.com/deniz/campuslink/internal/pkg/logger"
)

var achievementColumns = []string{
	"id", "student_id", "category_id", "title", "description", "date_achieved",
	"skill_tags", "status", "credits", "rejection_reason", "approved_by",
	"approved_at", "is_public", "created_at", "updated_at",
}

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAchievement(row pgx.Row) (*models.Achievement, error) {
	var a models.Achievement
	err := row.Scan(
		&a.ID, &a.StudentID, &a.CategoryID, &a.Title, &a.Description,
		&a.DateAchieved, &a.SkillTags, &a.Status, &a.Credits, &a.RejectionReason,
		&a.ApprovedBy, &a.ApprovedAt, &a.IsPublic, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new achievement. Submissions always start pending with
// zero credits regardless of the passed struct.
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	achievement.ID = uuid.New()
	achievement.Status = models.AchievementPending
	achievement.Credits = 0

	if achievement.SkillTags == nil {
		achievement.SkillTags = []string{}
	}

	sql, args, err := r.sb.Insert("achievements").
		Columns("id", "student_id", "category_id", "title", "description",
			"date_achieved", "skill_tags", "status", "credits", "is_public").
		Values(achievement.ID, achievement.StudentID, achievement.CategoryID,
			achievement.Title, achievement.Description, achievement.DateAchieved,
			achievement.SkillTags, achievement.Status, achievement.Credits,
			achievement.IsPublic).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create achievement SQL")
		return fmt.Errorf("failed to build create achievement query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&achievement.CreatedAt, &achievement.UpdatedAt)
	if err != nil {
		// The service checks the category id first, but it can be removed
		// between that check and this insert.
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewValidationError("unknown achievement category")
		}
		logger.Error().Err(err).Str("studentID", achievement.StudentID.String()).Msg("Error executing create achievement query")
		return fmt.Errorf("error creating achievement: %w", err)
	}

	logger.Info().Str("achievementID", achievement.ID.String()).Str("studentID", achievement.StudentID.String()).Msg("Achievement submitted")
	return nil
}

// GetByID retrieves an achievement by id
func (r *AchievementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Achievement, error) {
	sql, args, err := r.sb.Select(achievementColumns...).
		From("achievements").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get achievement query: %w", err)
	}

	achievement, err := scanAchievement(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAchievementNotFound
		}
		logger.Error().Err(err).Str("achievementID", id.String()).Msg("Error scanning achievement row")
		return nil, fmt.Errorf("error retrieving achievement: %w", err)
	}

	return achievement, nil
}

// List retrieves achievements, newest first, optionally filtered by status
// and student.
func (r *AchievementRepository) List(ctx context.Context, status *models.AchievementStatus, studentID *uuid.UUID) ([]models.Achievement, error) {
	builder := r.sb.Select(achievementColumns...).
		From("achievements").
		OrderBy("created_at DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}
	if studentID != nil {
		builder = builder.Where(squirrel.Eq{"student_id": *studentID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list achievements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list achievements query")
		return nil, fmt.Errorf("error listing achievements: %w", err)
	}
	defer rows.Close()

	achievements := make([]models.Achievement, 0)
	for rows.Next() {
		achievement, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning achievement row: %w", err)
		}
		achievements = append(achievements, *achievement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement rows: %w", err)
	}

	return achievements, nil
}

// Decide applies a terminal faculty decision. The UPDATE carries a
// status = 'pending' guard so a concurrent second decision updates zero rows
// and surfaces as ErrAchievementAlreadyDecided. On approval the owning
// student's counters are bumped with atomic increment expressions inside the
// same transaction.
func (r *AchievementRepository) Decide(ctx context.Context, id, approverID uuid.UUID, status models.AchievementStatus, credits int, rejectionReason *string) (*models.Achievement, error) {
	var decided *models.Achievement

	txErr := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		builder := r.sb.Update("achievements").
			Set("status", status).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": id, "status": models.AchievementPending})

		switch status {
		case models.AchievementApproved:
			builder = builder.
				Set("credits", credits).
				Set("approved_by", approverID).
				Set("approved_at", time.Now())
		case models.AchievementRejected:
			builder = builder.Set("rejection_reason", rejectionReason)
		}

		sql, args, err := builder.
			Suffix("RETURNING " + joinColumns(achievementColumns)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build decide achievement query: %w", err)
		}

		decided, err = scanAchievement(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyUndecided(ctx, tx, id)
			}
			return fmt.Errorf("error deciding achievement: %w", err)
		}

		if status == models.AchievementApproved {
			countSQL, countArgs, err := r.sb.Update("students").
				Set("total_credits", squirrel.Expr("total_credits + ?", credits)).
				Set("achievement_count", squirrel.Expr("achievement_count + 1")).
				Where(squirrel.Eq{"id": decided.StudentID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build credit award query: %w", err)
			}

			if _, err := tx.Exec(ctx, countSQL, countArgs...); err != nil {
				return fmt.Errorf("error awarding credits: %w", err)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.Info().
		Str("achievementID", id.String()).
		Str("status", string(status)).
		Int("credits", credits).
		Msg("Achievement decided")
	return decided, nil
}

// classifyUndecided distinguishes a missing achievement from one that was
// already decided when the guarded update matched nothing.
func (r *AchievementRepository) classifyUndecided(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	sql, args, err := r.sb.Select("status").
		From("achievements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build achievement status query: %w", err)
	}

	var status models.AchievementStatus
	if err := tx.QueryRow(ctx, sql, args...).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrAchievementNotFound
		}
		return fmt.Errorf("error checking achievement status: %w", err)
	}

	return apperrors.ErrAchievementAlreadyDecided
}

// ListCategories retrieves the seeded achievement categories
func (r *AchievementRepository) ListCategories(ctx context.Context) ([]models.AchievementCategory, error) {
	sql, args, err := r.sb.Select("id", "name", "description").
		From("achievement_categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing achievement categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.AchievementCategory, 0)
	for rows.Next() {
		var c models.AchievementCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// CategoryExists checks if an achievement category id is known
func (r *AchievementRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("achievement_categories").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build category exists query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking category existence: %w", err)
	}

	return exists, nil
}

package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/deniz/campuslink/internal/app/models"
)

// defaultCategories is the seeded achievement category catalog. Submissions
// must reference one of these ids.
var defaultCategories = []appModels.AchievementCategory{
	{ID: "academic", Name: "Academic", Description: "Coursework, research and academic competitions"},
	{ID: "sports", Name: "Sports", Description: "Athletic participation and achievements"},
	{ID: "cultural", Name: "Cultural", Description: "Arts, music and cultural activities"},
	{ID: "technical", Name: "Technical", Description: "Hackathons, certifications and technical projects"},
	{ID: "volunteering", Name: "Volunteering", Description: "Community service and social work"},
	{ID: "leadership", Name: "Leadership", Description: "Club, society and student body leadership"},
}

// CreateDefaultData seeds the achievement category catalog. Existing rows are
// left untouched; individual failures are collected so one bad row does not
// stop the rest.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default achievement categories...")

	var finalErr error
	for _, category := range defaultCategories {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO achievement_categories (id, name, description)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			category.ID, category.Name, category.Description)
		if err != nil {
			lgr.Error().Err(err).Str("categoryID", category.ID).Msg("Error seeding achievement category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("count", len(defaultCategories)).Msg("Achievement categories ready")
	}
	return finalErr
}

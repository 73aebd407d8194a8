package repositories

import (
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository     *ProfileRepository
	AchievementRepository *AchievementRepository
	EventRepository       *EventRepository
	JobRepository         *JobRepository
}

// joinColumns renders a column list for RETURNING clauses
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:     NewProfileRepository(db),
		AchievementRepository: NewAchievementRepository(db),
		EventRepository:       NewEventRepository(db),
		JobRepository:         NewJobRepository(db),
	}
}

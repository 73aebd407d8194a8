package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/deniz/campuslink/internal/app/controllers"
	appMigrations "github.com/deniz/campuslink/internal/app/migrations"
	appRepos "github.com/deniz/campuslink/internal/app/repositories"
	appRoutes "github.com/deniz/campuslink/internal/app/routes"
	appServices "github.com/deniz/campuslink/internal/app/services"
	"github.com/deniz/campuslink/internal/config"
	"github.com/deniz/campuslink/internal/db"
	appMiddleware "github.com/deniz/campuslink/internal/middleware"
	pkgAuth "github.com/deniz/campuslink/internal/pkg/auth"
	"github.com/deniz/campuslink/internal/pkg/helpers"
	"github.com/deniz/campuslink/internal/pkg/logger"
	"github.com/deniz/campuslink/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ProfileService        appServices.ProfileService
	AchievementService    appServices.AchievementService
	EventService          appServices.EventService
	JobService            appServices.JobService
	ProfileController     *appControllers.ProfileController
	AchievementController *appControllers.AchievementController
	EventController       *appControllers.EventController
	JobController         *appControllers.JobController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	SessionVerifier       *pkgAuth.SessionVerifier
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.SessionVerifier = pkgAuth.NewSessionVerifier(pkgAuth.VerifierConfig{
		SecretKey: cfg.Session.JWTSecret,
		Issuer:    cfg.Session.Issuer,
		Leeway:    helpers.ParseDuration(cfg.Session.Leeway, 30*time.Second),
	})

	deps.ProfileService = appServices.NewProfileService(deps.Repos.ProfileRepository, lgr)
	deps.AchievementService = appServices.NewAchievementService(deps.Repos.AchievementRepository, deps.Repos.ProfileRepository)
	deps.EventService = appServices.NewEventService(deps.Repos.EventRepository, deps.Repos.ProfileRepository)
	deps.JobService = appServices.NewJobService(deps.Repos.JobRepository, deps.Repos.ProfileRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionVerifier)

	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService)
	deps.AchievementController = appControllers.NewAchievementController(deps.AchievementService)
	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.JobController = appControllers.NewJobController(deps.JobService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.ProfileController,
		deps.AchievementController,
		deps.EventController,
		deps.JobController,
		deps.AuthMiddleware,
	)

	return router
}

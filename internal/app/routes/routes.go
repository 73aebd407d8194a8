package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deniz/campuslink/internal/app/controllers"
	"github.com/deniz/campuslink/internal/app/models"
	"github.com/deniz/campuslink/internal/app/models/dto"
	"github.com/deniz/campuslink/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	profileController *controllers.ProfileController,
	achievementController *controllers.AchievementController,
	eventController *controllers.EventController,
	jobController *controllers.JobController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Health check endpoint (public)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.SessionAuth())

	// Bootstrap routes
	bootstrap := v1.Group("/bootstrap")
	{
		bootstrap.POST("", profileController.Bootstrap)
		bootstrap.GET("", profileController.GetProfile)
	}

	// Achievement routes
	achievements := v1.Group("/achievements")
	{
		achievements.GET("", achievementController.List)
		achievements.GET("/categories", achievementController.ListCategories)

		achievementsStudentProtected := achievements.Group("")
		achievementsStudentProtected.Use(authMiddleware.RequireRole(models.RoleStudent))
		{
			achievementsStudentProtected.POST("", achievementController.Submit)
		}

		achievementsFacultyProtected := achievements.Group("")
		achievementsFacultyProtected.Use(authMiddleware.RequireRole(models.RoleFaculty))
		{
			achievementsFacultyProtected.PATCH("/:id", achievementController.Decide)
		}
	}

	// Event routes (student-facing browse and registration)
	events := v1.Group("/events")
	{
		events.GET("", eventController.ListOpen)

		eventsStudentProtected := events.Group("")
		eventsStudentProtected.Use(authMiddleware.RequireRole(models.RoleStudent))
		{
			eventsStudentProtected.POST("/:id/register", eventController.Register)
		}
	}

	// Organizer event routes
	facultyEvents := v1.Group("/faculty/events")
	facultyEvents.Use(authMiddleware.RequireRole(models.RoleFaculty, models.RoleInstitutionAdmin))
	{
		facultyEvents.GET("", eventController.ListMine)
		facultyEvents.POST("", eventController.Create)
		facultyEvents.PATCH("/:id", eventController.UpdateStatus)
	}

	// Job board routes
	jobs := v1.Group("/jobs")
	{
		jobs.GET("", jobController.ListJobs)

		jobsRecruiterProtected := jobs.Group("")
		jobsRecruiterProtected.Use(authMiddleware.RequireRole(models.RoleRecruiter))
		{
			jobsRecruiterProtected.POST("", jobController.PostJob)
			jobsRecruiterProtected.PATCH("/:id/close", jobController.CloseJob)
		}
	}

	// Application routes
	applications := v1.Group("/applications")
	{
		applicationsStudentProtected := applications.Group("")
		applicationsStudentProtected.Use(authMiddleware.RequireRole(models.RoleStudent))
		{
			applicationsStudentProtected.POST("", jobController.Apply)
			applicationsStudentProtected.GET("", jobController.ListApplications)
		}

		applicationsRecruiterProtected := applications.Group("")
		applicationsRecruiterProtected.Use(authMiddleware.RequireRole(models.RoleRecruiter))
		{
			applicationsRecruiterProtected.PATCH("/:id", jobController.UpdateApplicationStatus)
		}
	}
}

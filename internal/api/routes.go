package api

import (
	"net/http"

	"superstrong/workout-api/internal/catalog"
	"superstrong/workout-api/internal/provider"
	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint on the router. The token middleware
// guards everything except login, token refresh, health and bug reports.
func SetupRoutes(
	router *gin.Engine,
	environment string,
	version string,
	authService service.AuthService,
	workoutService service.WorkoutService,
	exerciseService service.ExerciseService,
	statisticsService service.StatisticsService,
	reportService service.ReportService,
	catalogService catalog.Service,
	providerService provider.Service,
) {
	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	statisticsHandler := NewStatisticsHandler(statisticsService)
	reportHandler := NewReportHandler(reportService)
	catalogHandler := NewCatalogHandler(catalogService)
	providerHandler := NewProviderHandler(providerService)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": environment,
			"version":     version,
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/telegram", authHandler.TelegramAuth)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/verify", authMiddleware, authHandler.Verify)
		}

		apiV1.POST("/bug-reports", reportHandler.SubmitBugReport)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		userGroup := protected.Group("/users")
		{
			userGroup.GET("/me", authHandler.GetMe)
			userGroup.PUT("/me", authHandler.UpdateMe)
		}

		// Kept outside the /workouts group: a static "statistics" segment
		// cannot live next to the :workoutId wildcard.
		protected.GET("/workouts-summary/monthly", workoutHandler.GetMonthlySummary)

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)

			workoutGroup.POST("/:workoutId/exercises", exerciseHandler.AddExercise)
			workoutGroup.GET("/:workoutId/exercises", exerciseHandler.GetExercises)
			workoutGroup.PUT("/:workoutId/exercises/:exerciseId", exerciseHandler.UpdateExercise)
			workoutGroup.DELETE("/:workoutId/exercises/:exerciseId", exerciseHandler.DeleteExercise)
			workoutGroup.POST("/:workoutId/reorder", exerciseHandler.ReorderExercises)
		}

		statisticsGroup := protected.Group("/statistics")
		{
			statisticsGroup.GET("/daily", statisticsHandler.GetDaily)
			statisticsGroup.GET("/weekly", statisticsHandler.GetWeekly)
			statisticsGroup.GET("/monthly", statisticsHandler.GetMonthly)
			statisticsGroup.GET("/exercises/:catalogId", statisticsHandler.GetExercise)
			statisticsGroup.GET("/trending", statisticsHandler.GetTrending)
		}

		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.GET("/exercises", catalogHandler.ListExercises)
			catalogGroup.GET("/exercises/:exerciseId", catalogHandler.GetExercise)
			catalogGroup.GET("/categories", catalogHandler.ListCategories)
			catalogGroup.GET("/categories/:category/exercises", catalogHandler.ExercisesByCategory)
			catalogGroup.GET("/muscle-groups", catalogHandler.ListMuscleGroups)
			catalogGroup.GET("/muscle-groups/:muscleGroup/exercises", catalogHandler.ExercisesByMuscleGroup)
			catalogGroup.GET("/search", catalogHandler.SearchExercises)
			catalogGroup.GET("/health", catalogHandler.Health)
			for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
				catalogGroup.Handle(method, "/proxy/*subpath", catalogHandler.Proxy)
			}
		}

		providerGroup := protected.Group("/provider")
		{
			providerGroup.POST("/users/sync", providerHandler.SyncUser)
			providerGroup.GET("/users/by-id/:userID", providerHandler.GetUserByID)
			providerGroup.PUT("/users/by-id/:userID", providerHandler.UpdateUserByID)

			providerGroup.GET("/workouts", providerHandler.ListSessions)
			providerGroup.POST("/workouts", providerHandler.SaveSession)
			providerGroup.GET("/workouts/:sessionId", providerHandler.GetSession)
			providerGroup.DELETE("/workouts/:sessionId", providerHandler.DeleteSession)
			providerGroup.PUT("/workouts/:sessionId/exercises", providerHandler.UpdateSessionExercises)
			providerGroup.DELETE("/workouts/:sessionId/exercises/:exerciseId", providerHandler.DeleteSessionExercise)
		}
	}
}

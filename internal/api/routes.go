package api

import (
	"net/http"

	"gymtrack/gym-app/internal/domain"
	"gymtrack/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	sessionService service.SessionService,
	planService service.PlanService,
	mediaService service.MediaService,
	cleanupService service.CleanupService,
) {
	sessionHandler := NewSessionHandler(sessionService)
	planHandler := NewPlanHandler(planService)
	mediaHandler := NewMediaHandler(mediaService)
	adminHandler := NewAdminHandler(cleanupService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	// Public, read-only marketing content.
	{
		apiV1.GET("/gallery", mediaHandler.ListGallery)
		apiV1.GET("/success-stories", mediaHandler.ListSuccessStories)
		apiV1.GET("/transformation-images", mediaHandler.ListTransformationImages)
	}

	protected := apiV1.Group("")
	protected.Use(IdentityMiddleware())
	{
		// --- Workout Sessions ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("/start", sessionHandler.StartSession)
			sessionGroup.POST("/self-managed/exercises", sessionHandler.AddExerciseToToday)
			sessionGroup.PATCH("/:id/progress", sessionHandler.UpdateProgress)
			sessionGroup.POST("/:id/complete", sessionHandler.Complete)
			sessionGroup.POST("/:id/cancel", sessionHandler.Cancel)
			sessionGroup.GET("/ongoing", sessionHandler.GetOngoing)
			sessionGroup.GET("/latest", sessionHandler.GetLatestForDay)
			sessionGroup.GET("/history", sessionHandler.GetHistory)
			sessionGroup.GET("/stats", sessionHandler.GetStats)
		}

		// --- Training Plans ---
		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.List)
			planGroup.GET("/:id", planHandler.Get)
			planGroup.GET("/:id/users", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), planHandler.ListUsers)
			planGroup.POST("", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), planHandler.Create)
			planGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), planHandler.Update)
			planGroup.POST("/:id/assign", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), planHandler.Assign)
			planGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), planHandler.Delete)
		}
		protected.DELETE("/users/:userId/plan", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), planHandler.Unassign)
		protected.GET("/exercise-names", planHandler.ListExerciseNames)

		// --- Media ---
		protected.POST("/uploads/images", mediaHandler.RequestUploadURL)

		dietGroup := protected.Group("/diet-logs")
		{
			dietGroup.POST("", mediaHandler.CreateDietLog)
			dietGroup.GET("", mediaHandler.ListDietLogs)
			dietGroup.PUT("/:id", mediaHandler.UpdateDietLog)
			dietGroup.DELETE("/:id", mediaHandler.DeleteDietLog)
		}

		weightGroup := protected.Group("/weight-logs")
		{
			weightGroup.POST("", mediaHandler.CreateWeightLog)
			weightGroup.GET("", mediaHandler.ListWeightLogs)
			weightGroup.DELETE("/:id", mediaHandler.DeleteWeightLog)
		}

		// Marketing content management is staff only.
		staffOnly := RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin)
		protected.POST("/gallery", staffOnly, mediaHandler.CreateGalleryItem)
		protected.DELETE("/gallery/:id", staffOnly, mediaHandler.DeleteGalleryItem)
		protected.POST("/success-stories", staffOnly, mediaHandler.CreateSuccessStory)
		protected.PUT("/success-stories/:id", staffOnly, mediaHandler.UpdateSuccessStory)
		protected.DELETE("/success-stories/:id", staffOnly, mediaHandler.DeleteSuccessStory)
		protected.POST("/transformation-images", staffOnly, mediaHandler.CreateTransformationImage)
		protected.DELETE("/transformation-images/:id", staffOnly, mediaHandler.DeleteTransformationImage)

		// --- Admin ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.POST("/storage/cleanup", adminHandler.RunStorageCleanup)
		}
	}
}

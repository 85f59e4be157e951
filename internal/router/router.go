package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alumninet/backend/internal/auth"
	"alumninet/backend/internal/database"
	"alumninet/backend/internal/handlers"
	appmiddleware "alumninet/backend/internal/middleware"
	applog "alumninet/backend/pkg/log"
)

// SetupRouter configures and returns the Gin engine.
func SetupRouter(log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(appmiddleware.Metrics())
	router.Use(appmiddleware.GinZap(log, time.RFC3339, true))
	router.Use(appmiddleware.GinRecovery(log, time.RFC3339, true, true))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthCheckHandler)

	setupPublicRoutes(router)
	setupProtectedRoutes(router)

	return router
}

func healthCheckHandler(c *gin.Context) {
	sqlDB, err := database.GetDB().DB()
	if err != nil {
		applog.L.Error("Failed to obtain DB instance for health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database instance error"})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		applog.L.Error("Database ping failed during health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "connected",
	})
}

func setupPublicRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/signup", handlers.SignupHandler)
		api.POST("/login", handlers.LoginHandler)
		api.POST("/forgot-pwd", handlers.ForgotPasswordHandler)
		api.POST("/reset-pwd", handlers.ResetPasswordHandler)

		api.GET("/users/search", handlers.SearchUsersHandler)
		api.GET("/users/:username", handlers.GetUserProfileHandler)

		api.GET("/posts", handlers.GetPostsHandler)
		api.GET("/posts/:id", handlers.GetPostHandler)
	}
}

func setupProtectedRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.PUT("/:username", handlers.UpdateProfileHandler)
			userRoutes.POST("/avatar", handlers.UploadAvatarHandler)
			userRoutes.DELETE("/avatar", handlers.DeleteAvatarHandler)
		}

		postRoutes := api.Group("/posts")
		{
			postRoutes.POST("", handlers.CreatePostHandler)
			postRoutes.DELETE("/:id", handlers.DeletePostHandler)
			postRoutes.POST("/:id/upvote", handlers.VotePostHandler(1))
			postRoutes.POST("/:id/downvote", handlers.VotePostHandler(-1))

			postRoutes.POST("/:id/comment", handlers.CreateCommentHandler)
			postRoutes.DELETE("/:id/comment/:commentId", handlers.DeleteCommentHandler)
			postRoutes.POST("/:id/comment/:commentId/upvote", handlers.VoteCommentHandler(1))
			postRoutes.POST("/:id/comment/:commentId/downvote", handlers.VoteCommentHandler(-1))
		}

		adminRoutes := api.Group("/admin")
		{
			settingsRoutes := adminRoutes.Group("/settings")
			{
				settingsRoutes.GET("", handlers.ListSystemSettingsHandler)
				settingsRoutes.PUT("", handlers.UpdateSystemSettingsHandler)
				settingsRoutes.POST("/test-email", handlers.SendTestEmailHandler)
			}
		}
	}
}

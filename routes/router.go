package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/config"
	"github.com/dimas0315/AI-Social-Platform/controllers"
	"github.com/dimas0315/AI-Social-Platform/middleware"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

func ginModeFor(mode string) string {
	switch strings.ToLower(mode) {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(ginModeFor(cfg.GinMode))

	r := gin.New()

	// Request logging and panic recovery go to the rolling gin log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true), utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	// Record per-user activity after each authenticated request
	r.Use(middleware.ActivityRecorder(db))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	publicationController := controllers.NewPublicationController(db)
	commentController := controllers.NewCommentController(db)
	engagementController := controllers.NewEngagementController(db)
	friendshipController := controllers.NewFriendshipController(db)
	notificationController := controllers.NewNotificationController(db)
	topicController := controllers.NewTopicController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/captcha", authController.Captcha)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public stats endpoints
	api.GET("/stats", statsController.GetStats)
	api.GET("/publications/:id/stats", statsController.GetPublicationStats)
	// Public topic catalog
	api.GET("/topics", topicController.ListTopics)
	// Public user profiles and their publications
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/user/by-username/:username", authController.GetUserPublicByUsername)
	api.GET("/users/:id/publications", publicationController.ListUserPublications)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/users", authController.ListUsers)
	protected.POST("/upload", publicationController.UploadMedia)

	protected.GET("/publications", publicationController.ListPublications)
	protected.POST("/publications", publicationController.CreatePublication)
	protected.GET("/publications/:id", publicationController.GetPublication)
	protected.PUT("/publications/:id", publicationController.UpdatePublication)
	protected.DELETE("/publications/:id", publicationController.DeletePublication)

	protected.POST("/publications/:id/comments", commentController.CreateComment)
	protected.GET("/publications/:id/comments", commentController.ListComments)
	protected.PUT("/comments/:id", commentController.UpdateComment)
	protected.DELETE("/comments/:id", commentController.DeleteComment)

	protected.POST("/publications/:id/like", engagementController.Like)
	protected.DELETE("/publications/:id/like", engagementController.Unlike)
	protected.GET("/publications/:id/likes", engagementController.ListLikes)
	protected.POST("/publications/:id/share", engagementController.Share)
	protected.DELETE("/publications/:id/share", engagementController.Unshare)

	protected.POST("/friends/requests", friendshipController.RequestFriend)
	protected.GET("/friends/requests", friendshipController.ListRequests)
	protected.POST("/friends/requests/:id/accept", friendshipController.AcceptFriend)
	protected.DELETE("/friends/requests/:id", friendshipController.RemoveRequest)
	protected.GET("/friends", friendshipController.ListFriends)
	protected.DELETE("/friends/:userId", friendshipController.Unfriend)

	protected.GET("/notifications", notificationController.ListNotifications)
	protected.PATCH("/notifications/:id/read", notificationController.MarkRead)
	protected.POST("/notifications/read-all", notificationController.MarkAllRead)

	protected.POST("/topics", topicController.CreateTopic)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		// API miss: return API 404 JSON
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		// Static asset miss: still a 404
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// Everything else (client-side routes) falls back to the SPA entry
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}

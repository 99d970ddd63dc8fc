package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/commune-net/commune/config"
	"github.com/commune-net/commune/controllers"
	"github.com/commune-net/commune/middleware"
	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/storage"
	"github.com/commune-net/commune/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, avatars storage.BlobStore) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	profileService := services.NewProfileService(db, avatars)
	groupService := services.NewGroupService(db)
	threadService := services.NewThreadService(db)

	authController := controllers.NewAuthController(db, profileService)
	profileController := controllers.NewProfileController(profileService)
	groupController := controllers.NewGroupController(groupService)
	threadController := controllers.NewThreadController(threadService)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.RequireIdentity(), authController.Logout)
	authGroup.GET("/me", middleware.RequireIdentity(), authController.Me)

	// Public reads: group search and the composed detail views. Identity is
	// resolved when a token is present but never required here.
	public := api.Group("")
	public.Use(middleware.WithIdentity())
	public.GET("/groups/search", groupController.SearchPublic)
	public.GET("/groups/:id", groupController.GetGroup)
	public.GET("/posts/:id", threadController.GetPost)
	public.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.RequireIdentity(), middleware.RateLimitMiddleware())

	protected.GET("/groups", groupController.ListSubscribed)
	protected.POST("/groups", groupController.CreateGroup)
	protected.POST("/groups/:id/join", groupController.Join)
	protected.POST("/groups/:id/leave", groupController.Leave)
	protected.POST("/groups/:id/members", groupController.AddMember)
	protected.DELETE("/groups/:id/members/:userId", groupController.RemoveMember)

	protected.POST("/posts", threadController.CreatePost)
	protected.DELETE("/posts/:id", threadController.DeletePost)
	protected.POST("/posts/:id/comments", threadController.CreateComment)
	protected.DELETE("/comments/:commentId", threadController.DeleteComment)

	protected.PATCH("/profile", profileController.UpdateProfile)
	protected.POST("/profile/avatar", profileController.UploadAvatar)
	protected.GET("/profiles/search", profileController.SearchProfiles)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

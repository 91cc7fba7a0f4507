package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/aiblog/config"
	"github.com/cppla/aiblog/controllers"
	"github.com/cppla/aiblog/middleware"
	"github.com/cppla/aiblog/services"
	"github.com/cppla/aiblog/utils"
)

// SetupRouter wires routes, middlewares, and controllers. rdb may be nil, in
// which case rate limiting is kept per process.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		utils.Sugar.Warnf("gin logger init failed, access logs go to the app logger: %v", err)
		gl = utils.Logger
	}
	r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
	r.Use(ginzap.CustomRecoveryWithZap(gl, true, utils.RecoverInternalError))
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.Request.Context())
		}
		if err != nil {
			utils.Error(ctx, http.StatusServiceUnavailable, "INTERNAL_ERROR", "Database unavailable")
			return
		}
		utils.Success(ctx, http.StatusOK, "ok", gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	svc := services.NewBlogService(db, services.WithSanitizer(cfg.SanitizeHTML))
	postController := controllers.NewPostController(svc)
	tagController := controllers.NewTagController(svc)
	statsController := controllers.NewStatsController(svc)

	api := r.Group("/api/v1")
	api.Use(middleware.Identity(cfg.JWTSecret, cfg.JWTIssuer))

	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:postId", postController.GetPost)
	api.GET("/tags", tagController.ListTags)
	api.GET("/stats", statsController.GetStats)
	api.GET("/users/me/posts", postController.ListMyPosts)

	writes := api.Group("")
	writes.Use(middleware.RateLimit(cfg.RateLimitPerMinute, rdb))
	writes.POST("/posts", postController.CreatePost)
	writes.PUT("/posts/:postId", postController.UpdatePost)
	writes.DELETE("/posts/:postId", postController.DeletePost)
	writes.POST("/posts/:postId/comments", postController.CreateComment)
	writes.DELETE("/comments/:commentId", postController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "ROUTE_NOT_FOUND", "Route not found")
	})

	return r
}

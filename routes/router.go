package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/controllers"
	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
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
	// Replace the default console logger with a file-based zap access log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

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

	// Uploaded images are always served, whatever the upload directory is.
	r.Static("/static/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	categoryController := controllers.NewCategoryController(db)
	contactController := controllers.NewContactController(db)
	uploadController := controllers.NewUploadController(db)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	api.GET("/user/:id", userController.GetUser)
	api.GET("/post", postController.ListPosts)
	api.GET("/post/:id", postController.GetPost)
	api.GET("/categories", categoryController.ListCategories)
	api.POST("/categories", categoryController.CreateCategory)
	api.POST("/contact", contactController.CreateMessage)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.PUT("/user/:id", userController.UpdateUser)
	protected.DELETE("/user/:id", userController.DeleteUser)
	protected.POST("/post", postController.CreatePost)
	protected.PUT("/post/:id", postController.UpdatePost)
	protected.DELETE("/post/:id", postController.DeletePost)
	protected.GET("/contact", contactController.ListMessages)
	protected.POST("/upload", uploadController.Upload)

	// In production the server also serves the built frontend bundle with an
	// SPA fallback; in development the frontend dev server owns those paths.
	if cfg.IsProduction() {
		r.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))
		r.StaticFile("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))
		r.GET("/", func(ctx *gin.Context) {
			ctx.File(filepath.Join(cfg.StaticDir, "index.html"))
		})
	}

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		if cfg.IsProduction() {
			// Client-side routes fall back to the SPA entry.
			ctx.Status(http.StatusOK)
			ctx.File(filepath.Join(cfg.StaticDir, "index.html"))
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}

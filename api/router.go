package api

import (
	"voicenotes/api/health"
	"voicenotes/api/middleware"
	"voicenotes/api/voicenote"
	"voicenotes/config"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine              *gin.Engine
	config              *config.Config
	healthController    *health.Controller
	voiceNoteController *voicenote.Controller
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	voiceNoteController *voicenote.Controller,
) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:              engine,
		config:              cfg,
		healthController:    healthController,
		voiceNoteController: voiceNoteController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.voiceNoteController.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

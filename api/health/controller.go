package health

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"voicenotes/config"

	"github.com/gin-gonic/gin"
)

// Controller Health check controller
type Controller struct {
	config    *config.Config
	db        *sql.DB
	startTime time.Time
}

// NewController Create health check controller
// db may be nil when running with the in-memory repository
func NewController(cfg *config.Config, db *sql.DB) *Controller {
	return &Controller{
		config:    cfg,
		db:        db,
		startTime: time.Now(),
	}
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health Complete health check
func (c *Controller) Health(ctx *gin.Context) {
	checks := make(map[string]Check)
	overallStatus := "healthy"

	if c.db != nil {
		dbCheck := c.checkDatabase()
		checks["database"] = dbCheck
		if dbCheck.Status != "healthy" {
			overallStatus = "unhealthy"
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	resp := HealthResponse{
		Status:    overallStatus,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		System: &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		},
	}

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}

// Liveness Liveness probe
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness Readiness probe
func (c *Controller) Readiness(ctx *gin.Context) {
	if c.db != nil {
		if check := c.checkDatabase(); check.Status != "healthy" {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": check.Message,
			})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (c *Controller) checkDatabase() Check {
	start := time.Now()
	if err := c.db.Ping(); err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: time.Since(start).String(),
		}
	}
	return Check{
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
}

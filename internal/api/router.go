package api

import (
	"net/http"

	"mortgage-schedule/internal/api/handlers"
	"mortgage-schedule/internal/api/middleware"
	"mortgage-schedule/internal/config"
	"mortgage-schedule/internal/data"
	"mortgage-schedule/internal/scenario"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes. cache may be nil.
func NewRouter(cfg config.ServerConfig, runner *scenario.Runner, cache *data.ScheduleCache) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	scheduleHandler := handlers.NewScheduleHandler(runner, cache, cfg.LoanDir)
	planHandler := handlers.NewPlanHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_schedules": cache.Len()})
		})

		v1.POST("/schedule", scheduleHandler.RunSchedule)
		v1.POST("/schedule/compare", scheduleHandler.CompareSchedules)
		v1.GET("/schedule/:id", scheduleHandler.GetSchedule)
		v1.GET("/mortgage", scheduleHandler.GetMortgage)

		v1.GET("/plans", planHandler.ListPlans)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}

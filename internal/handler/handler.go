package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"portfolio-api/internal/scheduler"
	"portfolio-api/internal/service"
)

const storePingTimeout = 2 * time.Second

// Handlers contains all HTTP handlers
type Handlers struct {
	service   *service.ContactService
	scheduler *scheduler.Scheduler
	probes    healthcheck.Handler
}

// NewHandlers creates new HTTP handlers
func NewHandlers(svc *service.ContactService, sched *scheduler.Scheduler) *Handlers {
	probes := healthcheck.NewHandler()
	probes.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	probes.AddReadinessCheck("store", healthcheck.Timeout(func() error {
		return svc.Ping(context.Background())
	}, storePingTimeout))

	return &Handlers{
		service:   svc,
		scheduler: sched,
		probes:    probes,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/live", gin.WrapF(h.probes.LiveEndpoint))
	router.GET("/ready", gin.WrapF(h.probes.ReadyEndpoint))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)

		api.POST("/contact", h.SubmitContact)
		api.GET("/contacts", h.GetContacts)
		api.GET("/contacts/:id", h.GetContact)
		api.PUT("/contacts/:id/status", h.UpdateContactStatus)

		api.GET("/stats", h.GetStats)

		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.POST("/scheduler/run-once", h.RunOnce)
		api.GET("/scheduler/status", h.GetSchedulerStatus)
	}
}

// Health always reports the API as running
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, APIHealthResponse{
		Status:  "healthy",
		Message: "Portfolio API is running",
	})
}

// HealthCheck reports store reachability and scheduler state
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Scheduler: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storePingTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.scheduler.IsRunning() {
		response.Scheduler["state"] = "running"
		response.Scheduler["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
	} else {
		response.Scheduler["state"] = "stopped"
	}
	if last := h.scheduler.GetLastRun(); !last.IsZero() {
		response.Scheduler["last_run"] = last.Format(time.RFC3339)
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

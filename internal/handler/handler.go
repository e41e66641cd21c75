package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"smart-contact-form/config"
	metricsPkg "smart-contact-form/internal/metrics"
	"smart-contact-form/internal/service"
	"smart-contact-form/internal/stats"
	"smart-contact-form/internal/token"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db        *gorm.DB
	service   *service.Service
	refresher *stats.Refresher
	tokens    *token.Issuer
	metrics   *metricsPkg.Metrics
	security  config.SecurityConfig
	admin     config.AdminConfig
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, svc *service.Service, refresher *stats.Refresher, tokens *token.Issuer, metrics *metricsPkg.Metrics, cfg *config.Config) *Handlers {
	return &Handlers{
		db:        db,
		service:   svc,
		refresher: refresher,
		tokens:    tokens,
		metrics:   metrics,
		security:  cfg.Security,
		admin:     cfg.Admin,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.FormPage)
	router.GET("/admin/submissions", h.AdminPage)
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/form-token", h.GetFormToken)
		api.POST("/submissions", h.VerifyFormToken(), h.SubmitForm)
		api.GET("/submissions", h.ListSubmissions)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Metrics:   make(map[string]string),
	}

	var probe int
	if err := h.db.Raw("SELECT 1").Scan(&probe).Error; err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.refresher != nil && h.refresher.IsRunning() {
		response.Metrics["stats_refresher"] = "running"
		response.Metrics["next_refresh"] = h.refresher.GetNextRun().Format(time.RFC3339)
	} else {
		response.Metrics["stats_refresher"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/labellens/backend/config"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logger.Logger, m *metrics.Metrics) (*gin.Engine, error) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	if cfg.Server.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware(m))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// One limiter shared by the form and the API
	rateLimit := RateLimitMiddleware(cfg.RateLimit.PerIP)

	limited := router.Group("/", rateLimit)
	{
		limited.GET("/", handler.Index)
		limited.POST("/upload", handler.Upload)
	}

	v1 := router.Group("/api/v1", rateLimit)
	{
		labels := v1.Group("/labels")
		{
			labels.POST("/scan", handler.ScanLabel)
			labels.POST("/classify", handler.ClassifyText)
			labels.POST("/chart", handler.LabelChart)
		}

		dataset := v1.Group("/dataset")
		{
			dataset.GET("", handler.DatasetInfo)
			dataset.GET("/search", handler.SearchDataset)
			dataset.POST("/reload", handler.ReloadDataset)
		}
	}

	return router, nil
}

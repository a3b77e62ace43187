package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crimson-sun/langdetect/internal/adapter/http/handler"
	"github.com/crimson-sun/langdetect/internal/adapter/http/middleware"
)

// Deps carries what the routes are built from. Gatherer defaults to the
// Prometheus default registry.
type Deps struct {
	Detect   *handler.DetectHandler
	Health   *handler.HealthHandler
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	router.GET("/health", d.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.GET("/", d.Detect.Info)
	detect := router.Group("/detect")
	{
		detect.POST("", d.Detect.Detect)
		detect.GET("/info", d.Detect.Info)
		detect.POST("/batch", d.Detect.DetectBatch)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/", d.Detect.Info)
		v1.POST("/detect", d.Detect.Detect)
		v1.POST("/detect/batch", d.Detect.DetectBatch)
	}

	return router
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/prometheus"
	"github.com/roofsight/RoofSight-Engine/internal/interfaces/http/handlers"
	"github.com/roofsight/RoofSight-Engine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies needed to
// build the complete route tree.
type RouterConfig struct {
	RiskHandler     *handlers.RiskHandler
	GroupHandler    *handlers.GroupHandler
	SeasonalHandler *handlers.SeasonalHandler
	RouteHandler    *handlers.RouteHandler
	HealthHandler   *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	Mode             string
}

// NewRouter builds the gin engine: global middleware, public health and
// metrics endpoints, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	{
		if cfg.RiskHandler != nil {
			api.GET("/properties/:propertyID/risk", cfg.RiskHandler.GetPropertyRisk)
			api.POST("/portfolio/analyze", cfg.RiskHandler.AnalyzePortfolio)
		}
		if cfg.GroupHandler != nil {
			groups := api.Group("/groups")
			groups.POST("/geographic", cfg.GroupHandler.Geographic)
			groups.POST("/by-manager", cfg.GroupHandler.ByManager)
			groups.POST("/by-risk", cfg.GroupHandler.ByRisk)
			groups.POST("/custom", cfg.GroupHandler.Custom)
		}
		if cfg.SeasonalHandler != nil {
			api.GET("/seasonal", cfg.SeasonalHandler.Recommendations)
		}
		if cfg.RouteHandler != nil {
			api.POST("/routes/optimize", cfg.RouteHandler.Optimize)
		}
	}

	return r
}

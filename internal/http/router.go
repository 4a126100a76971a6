package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pukpuk-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pukpuk-backend/internal/http/middleware"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger
	// ServiceName enables otelgin spans when set.
	ServiceName string
	CORSOrigins []string
	Fallback    httpMW.Fallback

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	ProductHandler  *httpH.ProductHandler
	DemandHandler   *httpH.DemandHandler
	AdminHandler    *httpH.AdminHandler
	TransferHandler *httpH.TransferHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Recover(log, cfg.Fallback))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Products
		if cfg.ProductHandler != nil {
			protected.GET("/products", cfg.ProductHandler.ListProducts)
			protected.GET("/products/stats", cfg.ProductHandler.Stats)
			protected.GET("/products/last-updated", cfg.ProductHandler.LastUpdated)
			protected.GET("/products/:id/summary", cfg.ProductHandler.Summary)
		}

		// Bulk clear
		if cfg.AdminHandler != nil {
			protected.DELETE("/demands/clear-all", cfg.AdminHandler.ClearAll)
		}

		// CSV transfer
		if cfg.TransferHandler != nil {
			protected.POST("/demands/import", cfg.TransferHandler.Import)
			protected.GET("/demands/export", cfg.TransferHandler.Export)
		}

		// Demands
		if cfg.DemandHandler != nil {
			protected.GET("/demands", cfg.DemandHandler.List)
			protected.POST("/demands", cfg.DemandHandler.Create)
			protected.GET("/demands/:id", cfg.DemandHandler.Get)
			protected.PUT("/demands/:id", cfg.DemandHandler.Update)
			protected.DELETE("/demands/:id", cfg.DemandHandler.Delete)
		}
	}

	return r
}

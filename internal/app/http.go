package app

import (
	"github.com/yungbote/pukpuk-backend/internal/data/db"
	"github.com/yungbote/pukpuk-backend/internal/http"
	httpH "github.com/yungbote/pukpuk-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pukpuk-backend/internal/http/middleware"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Product  *httpH.ProductHandler
	Demand   *httpH.DemandHandler
	Admin    *httpH.AdminHandler
	Transfer *httpH.TransferHandler
}

func wireHandlers(log *logger.Logger, services Services, gateway db.Gateway) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(gateway),
		Product:  httpH.NewProductHandler(services.Products),
		Demand:   httpH.NewDemandHandler(services.Demands),
		Admin:    httpH.NewAdminHandler(log, services.Admin),
		Transfer: httpH.NewTransferHandler(services.Transfer),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Identity),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewServer(http.ServerConfig{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: cfg.HTTPReadHeaderTimeout,
		ShutdownTimeout:   cfg.HTTPShutdownTimeout,
	}, http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOriginList(),
		Fallback:        httpMW.DefaultFallback(),
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		ProductHandler:  handlers.Product,
		DemandHandler:   handlers.Demand,
		AdminHandler:    handlers.Admin,
		TransferHandler: handlers.Transfer,
	})
}

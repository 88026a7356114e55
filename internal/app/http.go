package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/nexuslearn-backend/internal/data/db"
	"github.com/yungbote/nexuslearn-backend/internal/http"
	httpH "github.com/yungbote/nexuslearn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nexuslearn-backend/internal/http/middleware"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	User          *httpH.UserHandler
	Catalog       *httpH.CatalogHandler
	AdminResource *httpH.AdminResourceHandler
	Score         *httpH.ScoreHandler
}

func wireHandlers(log *logger.Logger, services Services, dbService *db.Service) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(dbService),
		Auth:          httpH.NewAuthHandler(services.Auth),
		User:          httpH.NewUserHandler(services.Auth),
		Catalog:       httpH.NewCatalogHandler(services.Catalog),
		AdminResource: httpH.NewAdminResourceHandler(services.Resource),
		Score:         httpH.NewScoreHandler(services.Score),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		ServiceName:          serviceName,
		CORSOrigins:          cfg.CORSOrigins,
		Logger:               log,
		HealthHandler:        handlers.Health,
		AuthHandler:          handlers.Auth,
		AuthMiddleware:       middleware.Auth,
		UserHandler:          handlers.User,
		CatalogHandler:       handlers.Catalog,
		AdminResourceHandler: handlers.AdminResource,
		ScoreHandler:         handlers.Score,
	})
}

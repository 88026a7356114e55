package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/nexuslearn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nexuslearn-backend/internal/http/middleware"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

type RouterConfig struct {
	ServiceName string
	CORSOrigins []string
	Logger      *logger.Logger

	AuthHandler          *httpH.AuthHandler
	AuthMiddleware       *httpMW.AuthMiddleware
	UserHandler          *httpH.UserHandler
	CatalogHandler       *httpH.CatalogHandler
	AdminResourceHandler *httpH.AdminResourceHandler
	ScoreHandler         *httpH.ScoreHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Logger != nil {
		r.Use(httpMW.RequestLogger(cfg.Logger))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/signup", cfg.AuthHandler.Signup)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Catalog (public)
		if cfg.CatalogHandler != nil {
			api.GET("/resources", cfg.CatalogHandler.ActiveResources)
			api.GET("/catalog", cfg.CatalogHandler.List)
			api.GET("/catalog/years", cfg.CatalogHandler.Years)
			api.GET("/catalog/options", cfg.CatalogHandler.Options)
			api.GET("/catalog/subjects", cfg.CatalogHandler.Subjects)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Scores
		if cfg.ScoreHandler != nil {
			protected.GET("/scores", cfg.ScoreHandler.Get)
			protected.POST("/scores", cfg.ScoreHandler.Submit)
			protected.GET("/scores/progress", cfg.ScoreHandler.Progress)
		}
	}

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	{
		if cfg.AdminResourceHandler != nil {
			admin.GET("/resources", cfg.AdminResourceHandler.List)
			admin.POST("/resources", cfg.AdminResourceHandler.Create)
			admin.PUT("/resources/:id", cfg.AdminResourceHandler.Update)
			admin.DELETE("/resources/:id", cfg.AdminResourceHandler.Delete)
		}
	}

	return r
}

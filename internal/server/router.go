package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/yupiflow-admin/api/swagger"
	"github.com/noah-isme/yupiflow-admin/internal/handler"
	"github.com/noah-isme/yupiflow-admin/internal/middleware"
	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/service"
	"github.com/noah-isme/yupiflow-admin/pkg/config"
	"github.com/noah-isme/yupiflow-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/yupiflow-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/yupiflow-admin/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Registrations *handler.RegistrationHandler
	Metrics       *handler.MetricsHandler
}

// NewRouter builds the gin engine with the API routes under cfg.APIPrefix.
func NewRouter(cfg *config.Config, h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.Auth.Me)
	secured.GET("/roles", h.Auth.Roles)

	readers := middleware.RequireTier(models.TierAdmin, models.TierStaff)
	managers := middleware.RequireTier(models.TierAdmin)

	users := secured.Group("/users")
	users.GET("", readers, h.Users.List)
	users.GET("/export", managers, h.Users.Export)
	users.GET("/:id", readers, h.Users.Get)
	users.POST("", managers, h.Users.Create)
	users.DELETE("/:id", managers, h.Users.Delete)

	registrations := secured.Group("/registrations", managers)
	registrations.GET("", h.Registrations.List)
	registrations.GET("/:id", h.Registrations.Get)
	registrations.PATCH("/:id/status", h.Registrations.Review)

	return r
}

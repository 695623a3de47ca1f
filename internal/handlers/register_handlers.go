package handlers

import (
	"log/slog"

	"github.com/SscSPs/studio_ops_app/cmd/docs"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const fallbackPublicRate = "30-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register public authentication routes
	registerAuthRoutes(r, services.Auth)

	registerPublicRoutes(r, services, publicRateLimit(cfg))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerLeadRoutes(v1, service.Lead, service.Conversion)
	registerClientRoutes(v1, service.Client)
	registerProjectRoutes(v1, service.Project)
	registerFinanceRoutes(v1, service.Finance)
	registerTeamRoutes(v1, service.Team)
	registerCatalogRoutes(v1, service.Catalog)
}

func publicRateLimit(cfg *config.Config) gin.HandlerFunc {
	l, err := middleware.NewRateLimiter(cfg.PublicRateLimit)
	if err != nil {
		slog.Warn("Invalid PUBLIC_RATE_LIMIT, using fallback", slog.String("value", cfg.PublicRateLimit), slog.String("fallback", fallbackPublicRate))
		l, _ = middleware.NewRateLimiter(fallbackPublicRate)
	}
	return middleware.RateLimit(l)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	// An empty host makes the UI call whichever host served it.
	docs.SwaggerInfo.Host = ""
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

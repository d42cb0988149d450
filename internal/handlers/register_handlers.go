package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mahligai/cargo_backoffice/cmd/docs"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
	"github.com/mahligai/cargo_backoffice/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/healthz", getHealthz)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware and the IP rate limiter to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RateLimit(newIPLimiter(cfg.RateLimit)))

	// Delegate route registration to specific handlers, passing required services
	registerPendingRoutes(v1, services.Pending)
	registerApprovalRoutes(v1, services.Approval)
	registerReconciliationRoutes(v1, services.Approval)
}

// newIPLimiter builds an in-memory limiter from an ulule formatted rate, e.g. "120-M".
func newIPLimiter(formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Printf("Warning: Invalid value for RATE_LIMIT ('%s'). Defaulting to 120-M.\n", formatted)
		rate, _ = limiter.NewRateFromFormatted("120-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

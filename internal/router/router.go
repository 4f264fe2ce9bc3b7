package router

import (
	"github.com/gin-gonic/gin"

	"polisure/internal/config"
	"polisure/internal/domain"
	"polisure/internal/handler"
	"polisure/internal/middleware"
	"polisure/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	claimH *handler.ClaimHandler,
	chatH *handler.ChatHandler,
	policyH *handler.PolicyHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Healthz)
	r.GET("/readyz", healthH.Readyz)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Claim triage routes
	claims := protected.Group("/claims")
	claims.POST("", claimH.Submit)
	claims.GET("", claimH.List)
	claims.GET("/export", claimH.Export)
	claims.GET("/:id", claimH.GetByID)
	claims.GET("/:id/attachment", claimH.GetAttachmentURL)

	// Policy chat
	protected.POST("/chat", chatH.Ask)

	// Policy corpus
	policies := protected.Group("/policies")
	policies.GET("", policyH.List)
	policies.POST("/reload", middleware.RequireRole(domain.RoleAdmin), policyH.Reload)

	return r
}

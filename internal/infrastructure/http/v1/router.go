// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"municore/internal/domain/archive"
	"municore/internal/domain/auth"
	"municore/internal/domain/mayoralty"
	"municore/internal/domain/official"
	"municore/internal/domain/project"
	"municore/internal/domain/secretariat"
	"municore/internal/domain/subsecretariat"
	"municore/internal/infrastructure/http/v1/handlers"
	"municore/internal/infrastructure/http/v1/middleware"
	"municore/internal/infrastructure/storage/postgres"
	"municore/pkg/logger"
)

// RouterConfig holds the assembled services the API serves.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Domain services
	AuthService     *auth.Service
	Mayoralties     *mayoralty.Service
	Secretariats    *secretariat.Service
	Subsecretariats *subsecretariat.Service
	Officials       *official.Service
	Projects        *project.Service
	Archive         *archive.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, baseHandler, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerMayoraltyRoutes(protected, baseHandler, cfg)
		registerRecordRoutes(protected, baseHandler, cfg)
		registerArchiveRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	publicAuth := rg.Group("/auth")
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerMayoraltyRoutes registers tenant management endpoints.
// Mutations are restricted to admins; any authenticated user may read.
func registerMayoraltyRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewMayoraltyHandler(base, cfg.Mayoralties)

	group := rg.Group("/mayoralties")
	group.GET("", handler.List)
	group.GET("/by-code/:code", handler.GetByCode)
	group.GET("/:mayoraltyID", handler.Get)
	group.POST("", middleware.RequireRole("admin"), handler.Create)
	group.PUT("/:mayoraltyID", middleware.RequireRole("admin"), handler.Update)
	group.DELETE("/:mayoraltyID", middleware.RequireRole("admin"), handler.Delete)
	group.POST("/:mayoraltyID/restore", middleware.RequireRole("admin"), handler.Restore)
}

// registerRecordRoutes registers the per-mayoralty record endpoints.
// Every route under /mayoralties/:mayoraltyID enforces that the token
// belongs to the addressed mayoralty (admins excepted).
func registerRecordRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	tenant := rg.Group("/mayoralties/:mayoraltyID")
	tenant.Use(middleware.TenantMatch())

	// --- SECRETARIATS ---
	{
		handler := handlers.NewSecretariatHandler(base, cfg.Secretariats)
		RegisterRecordRoutes(tenant.Group("/secretariats"), handler)
	}

	// --- SUBSECRETARIATS ---
	{
		handler := handlers.NewSubsecretariatHandler(base, cfg.Subsecretariats)
		group := tenant.Group("/subsecretariats")
		RegisterRecordRoutes(group, handler)

		// Relationship reconciliation: PUT declares the desired set
		group.GET("/:id/secretariats", handler.ListSecretariats)
		group.PUT("/:id/secretariats", handler.SyncSecretariats)
		group.GET("/:id/officials", handler.ListOfficials)
		group.PUT("/:id/officials", handler.SyncOfficials)
	}

	// --- OFFICIALS ---
	{
		handler := handlers.NewOfficialHandler(base, cfg.Officials)
		RegisterRecordRoutes(tenant.Group("/officials"), handler)
	}

	// --- PROJECTS ---
	{
		handler := handlers.NewProjectHandler(base, cfg.Projects)
		group := tenant.Group("/projects")
		group.GET("/total-budget", handler.TotalBudget)
		RegisterRecordRoutes(group, handler)
	}
}

// registerArchiveRoutes registers the deletion ledger endpoints.
// The archive spans all mayoralties, so access is admin-only.
func registerArchiveRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewArchiveHandler(base, cfg.Archive)

	group := rg.Group("/archive")
	group.Use(middleware.RequireRole("admin"))
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
}

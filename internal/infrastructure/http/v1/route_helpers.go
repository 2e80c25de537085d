// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"municore/internal/infrastructure/http/v1/middleware"
)

// RecordRouteHandler defines the interface for administrative record handlers.
// All record handlers must implement these methods.
type RecordRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Restore(c *gin.Context)
}

// RegisterRecordRoutes registers standard CRUD routes for a record type.
// This eliminates the need to manually wire up routes for each entity.
// Deletion and restoration are restricted to managers; admins always pass.
//
// Usage:
//
//	handler := handlers.NewSecretariatHandler(baseHandler, service)
//	RegisterRecordRoutes(tenant.Group("/secretariats"), handler)
func RegisterRecordRoutes(group *gin.RouterGroup, handler RecordRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", middleware.RequireRole("manager"), handler.Delete)
	group.POST("/:id/restore", middleware.RequireRole("manager"), handler.Restore)
}

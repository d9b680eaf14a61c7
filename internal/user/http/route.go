package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes (including Auth).
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)
	g.PUT("/me", authMiddleware, h.UpdateMe)

	// Admin Routes
	adminGroup := g.Group("/admin/users")
	adminGroup.Use(authMiddleware, adminMiddleware)
	{
		adminGroup.GET("", h.List)
	}
}

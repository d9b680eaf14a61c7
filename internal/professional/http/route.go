package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers professional profile routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, professionalMiddleware, adminMiddleware gin.HandlerFunc) {
	self := g.Group("/professionals")
	self.Use(authMiddleware, professionalMiddleware)
	{
		self.GET("/profile", h.GetMine)
		self.PUT("/profile", h.UpdateMine)
		self.GET("/earnings", h.Earnings)
	}

	admin := g.Group("/admin/professionals")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("", h.List)
		admin.PUT("/:id/verify", h.Verify)
	}
}

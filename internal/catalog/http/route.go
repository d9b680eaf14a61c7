package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers catalog routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	public := g.Group("/services")
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
		public.GET("/:id/icon", h.ServeIcon)
	}

	// === Admin Routes ===
	admin := g.Group("/admin/services")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("", h.AdminList)
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.PUT("/:id/icon", h.UploadIcon)
	}
}

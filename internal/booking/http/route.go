package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking lifecycle routes and the professional matching view.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, customerMiddleware, professionalMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", customerMiddleware, h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id/accept", professionalMiddleware, h.Accept)
		group.PUT("/:id/reject", professionalMiddleware, h.Reject)
		group.PUT("/:id/status", h.UpdateStatus)
	}

	g.GET("/professionals/available-bookings", authMiddleware, professionalMiddleware, h.ListAvailable)
}

package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers review routes. Listing is public.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, customerMiddleware gin.HandlerFunc) {
	group := g.Group("/reviews")

	group.GET("/professional/:id", h.ListForProfessional)
	group.POST("", authMiddleware, customerMiddleware, h.Create)
}

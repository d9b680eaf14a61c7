package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.GET("/admin/analytics", authMiddleware, adminMiddleware, h.Analytics)
}

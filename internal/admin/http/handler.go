package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/home-services-backend/internal/admin"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/response"
)

type Handler struct {
	service admin.Service
}

func NewHandler(service admin.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Analytics(c *gin.Context) {
	a, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAnalyticsResponse(a))
}

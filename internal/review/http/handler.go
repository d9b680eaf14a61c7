package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/response"
	"github.com/nekogravitycat/home-services-backend/internal/review"
)

type Handler struct {
	service review.Service
}

func NewHandler(service review.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	var body CreateReviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	rv, err := h.service.Record(c.Request.Context(), actor, review.RecordRequest{
		BookingID: body.BookingID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReviewResponse(rv))
}

func (h *Handler) ListForProfessional(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid professional id", err)
		return
	}

	var req ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.ListForProfessional(c.Request.Context(), uri.ID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(response.Map(items, NewReviewResponse), req.Page, req.PageSize, total))
}

package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/response"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
)

type Handler struct {
	service professional.Service
}

func NewHandler(service professional.Service) *Handler {
	return &Handler{service: service}
}

// GetMine returns the caller's professional profile.
func (h *Handler) GetMine(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// UpdateMine replaces the declared categories and/or availability.
func (h *Handler) UpdateMine(c *gin.Context) {
	var body UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), auth.GetUserID(c), professional.UpdateRequest{
		ServiceCategories: body.ServiceCategories,
		Availability:      body.Availability,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProfileResponse(p))
}

func (h *Handler) Earnings(c *gin.Context) {
	e, err := h.service.Earnings(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, EarningsResponse{
		CompletedJobs: e.CompletedJobs,
		Rating:        e.Rating,
		TotalReviews:  e.TotalReviews,
	})
}

// List returns all profiles. Access Control: Admin only.
func (h *Handler) List(c *gin.Context) {
	var req ListProfessionalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), professional.Filter{
		Verified: req.Verified,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPageResponse(response.Map(items, NewProfileResponse), req.Page, req.PageSize, total))
}

// Verify marks a professional as verified. Access Control: Admin only.
func (h *Handler) Verify(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body VerifyRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	verified := true
	if body.Verified != nil {
		verified = *body.Verified
	}

	p, err := h.service.Verify(c.Request.Context(), uri.ID, verified)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProfileResponse(p))
}

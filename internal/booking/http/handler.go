package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// actor reads the authenticated identity; it aborts with 401 when missing.
func actor(c *gin.Context) (auth.Actor, bool) {
	a, ok := auth.GetActor(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
	}
	return a, ok
}

func (h *Handler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), a, booking.CreateRequest{
		ServiceCategoryID: body.ServiceCategoryID,
		Address:           body.Address,
		ScheduledDate:     body.ScheduledDate,
		ScheduledTime:     body.ScheduledTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.ListForActor(c.Request.Context(), a, booking.ListRequest{
		Status:   booking.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(response.Map(items, NewBookingResponse), req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), a, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Accept(c *gin.Context) {
	h.transition(c, h.service.Accept)
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, a auth.Actor, id string) (*booking.Booking, error)) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := fn(c.Request.Context(), a, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStatusRequest
	var err error
	if c.Query("status") != "" {
		err = c.ShouldBindQuery(&body)
	} else {
		err = c.ShouldBindJSON(&body)
	}
	if err != nil {
		response.BadRequest(c, "invalid booking status", err)
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), a, uri.ID, body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListAvailable is the matching view for the calling professional.
func (h *Handler) ListAvailable(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req ListAvailableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.ListAvailable(c.Request.Context(), a, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(response.Map(items, NewBookingResponse), req.Page, req.PageSize, total))
}

package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/response"
)

type Handler struct {
	service catalog.Service
}

func NewHandler(service catalog.Service) *Handler {
	return &Handler{service: service}
}

// List returns active services. Public.
func (h *Handler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList returns every service including deactivated ones.
func (h *Handler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) list(c *gin.Context, includeInactive bool) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), catalog.Filter{
		IncludeInactive: includeInactive,
		Page:            req.Page,
		PageSize:        req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(response.Map(items, NewServiceResponse), req.Page, req.PageSize, total))
}

// Get returns one active service. Public.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	cat, err := h.service.Resolve(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(cat))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	cat, err := h.service.Create(c.Request.Context(), catalog.CreateRequest{
		Name:          body.Name,
		Description:   body.Description,
		PriceRange:    body.PriceRange,
		EstimatedTime: body.EstimatedTime,
		Icon:          body.Icon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewServiceResponse(cat))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	cat, err := h.service.Update(c.Request.Context(), uri.ID, catalog.UpdateRequest{
		Name:          body.Name,
		Description:   body.Description,
		PriceRange:    body.PriceRange,
		EstimatedTime: body.EstimatedTime,
		Icon:          body.Icon,
		Active:        body.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(cat))
}

// UploadIcon accepts a multipart "file" field holding a JPEG, PNG or GIF.
func (h *Handler) UploadIcon(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required", err)
		return
	}
	if fileHeader.Size > catalog.MaxIconBytes {
		response.Error(c, catalog.ErrIconTooLarge)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, catalog.MaxIconBytes+1))
	if err != nil {
		response.Error(c, err)
		return
	}

	cat, err := h.service.SetIcon(c.Request.Context(), uri.ID, content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewServiceResponse(cat))
}

// ServeIcon streams the icon, or its thumbnail with ?thumbnail=true.
func (h *Handler) ServeIcon(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q IconRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	stream, contentType, err := h.service.OpenIcon(c.Request.Context(), uri.ID, q.Thumbnail)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		logging.FromContext(c).WithError(err).Warn("icon stream interrupted")
	}
}

package http

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
)

type ListServicesRequest struct {
	request.ListParams
}

type CreateServiceRequest struct {
	Name          string `json:"name" binding:"required,max=120"`
	Description   string `json:"description" binding:"max=2000"`
	PriceRange    string `json:"price_range" binding:"max=120"`
	EstimatedTime string `json:"estimated_time" binding:"max=120"`
	Icon          string `json:"icon" binding:"max=64"`
}

type UpdateServiceRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=120"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	PriceRange    *string `json:"price_range" binding:"omitempty,max=120"`
	EstimatedTime *string `json:"estimated_time" binding:"omitempty,max=120"`
	Icon          *string `json:"icon" binding:"omitempty,max=64"`
	Active        *bool   `json:"active"`
}

type IconRequest struct {
	Thumbnail bool `form:"thumbnail"`
}

type ServiceResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceRange    string    `json:"price_range"`
	EstimatedTime string    `json:"estimated_time"`
	Icon          string    `json:"icon"`
	IconURL       *string   `json:"icon_url"`
	ThumbnailURL  *string   `json:"thumbnail_url"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// IconURL is the public path serving a category's uploaded icon.
func IconURL(id string) string {
	return "/v1/services/" + id + "/icon"
}

func NewServiceResponse(c *catalog.Category) ServiceResponse {
	resp := ServiceResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		PriceRange:    c.PriceRange,
		EstimatedTime: c.EstimatedTime,
		Icon:          c.Icon,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
	}
	if c.IconPath != nil {
		u := IconURL(c.ID)
		resp.IconURL = &u
	}
	if c.ThumbnailPath != nil {
		u := IconURL(c.ID) + "?thumbnail=true"
		resp.ThumbnailURL = &u
	}
	return resp
}

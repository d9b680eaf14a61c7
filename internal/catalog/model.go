package catalog

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.NotFound("service not found")
	ErrNameRequired    = apperror.InvalidArgument("name is required")
	ErrIconNotSet      = apperror.NotFound("service has no icon")
	ErrInvalidIcon     = apperror.InvalidArgument("icon must be a JPEG, PNG or GIF image")
	ErrIconTooLarge    = apperror.InvalidArgument("icon exceeds the maximum size")
)

// Category is a bookable service in the catalog (e.g. "Plumbing").
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceRange    string    `json:"price_range"`
	EstimatedTime string    `json:"estimated_time"`
	Icon          string    `json:"icon"`
	IconPath      *string   `json:"icon_path,omitempty"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter defines parameters for listing categories.
type Filter struct {
	IncludeInactive bool
	Page            int
	PageSize        int
}

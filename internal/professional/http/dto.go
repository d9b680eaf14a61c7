package http

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
)

type ListProfessionalsRequest struct {
	request.ListParams
	Verified *bool `form:"verified"`
}

type UpdateProfileRequest struct {
	ServiceCategories *[]string      `json:"service_categories" binding:"omitempty,max=50,dive,uuid"`
	Availability      map[string]any `json:"availability"`
}

// VerifyRequest defaults to verifying when the body is empty.
type VerifyRequest struct {
	Verified *bool `json:"verified"`
}

type ProfileResponse struct {
	UserID            string         `json:"user_id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Phone             *string        `json:"phone"`
	ServiceCategories []string       `json:"service_categories"`
	Availability      map[string]any `json:"availability"`
	Verified          bool           `json:"verified"`
	Rating            float64        `json:"rating"`
	TotalReviews      int            `json:"total_reviews"`
	CreatedAt         time.Time      `json:"created_at"`
}

func NewProfileResponse(p *professional.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:            p.UserID,
		Name:              p.Name,
		Email:             p.Email,
		Phone:             p.Phone,
		ServiceCategories: p.ServiceCategories,
		Availability:      p.Availability,
		Verified:          p.Verified,
		Rating:            p.Rating,
		TotalReviews:      p.TotalReviews,
		CreatedAt:         p.CreatedAt,
	}
}

type EarningsResponse struct {
	CompletedJobs int     `json:"completed_jobs"`
	Rating        float64 `json:"rating"`
	TotalReviews  int     `json:"total_reviews"`
}

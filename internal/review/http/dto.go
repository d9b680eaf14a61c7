package http

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
	"github.com/nekogravitycat/home-services-backend/internal/review"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type ListReviewsRequest struct {
	request.ListParams
}

type ReviewResponse struct {
	ID             string    `json:"id"`
	BookingID      string    `json:"booking_id"`
	CustomerName   string    `json:"customer_name"`
	ProfessionalID string    `json:"professional_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewReviewResponse(rv *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:             rv.ID,
		BookingID:      rv.BookingID,
		CustomerName:   rv.CustomerName,
		ProfessionalID: rv.ProfessionalID,
		Rating:         rv.Rating,
		Comment:        rv.Comment,
		CreatedAt:      rv.CreatedAt,
	}
}

package review

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/pkg/apperror"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrCustomerOnly       = apperror.Forbidden("only customers can review bookings")
	ErrNotYourBooking     = apperror.Forbidden("you can only review your own bookings")
	ErrInvalidRating      = apperror.InvalidArgument("rating must be an integer between 1 and 5")
	ErrNotCompleted       = apperror.InvalidState("only completed bookings can be reviewed")
	ErrAlreadyReviewed    = apperror.InvalidState("booking already reviewed")
	ErrProfessionalAbsent = apperror.NotFound("professional profile not found")
)

// Review is a customer's immutable rating of a completed booking.
type Review struct {
	ID             string
	BookingID      string
	CustomerID     string
	CustomerName   string
	ProfessionalID string
	Rating         int
	Comment        string
	CreatedAt      time.Time
}

// Filter defines parameters for listing reviews.
type Filter struct {
	ProfessionalID string
	Page           int
	PageSize       int
}

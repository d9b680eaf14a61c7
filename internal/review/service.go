package review

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
)

// BookingReader loads the booking a review refers to.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
}

type RecordRequest struct {
	BookingID string
	Rating    int
	Comment   string
}

type Service interface {
	Record(ctx context.Context, actor auth.Actor, req RecordRequest) (*Review, error)
	ListForProfessional(ctx context.Context, professionalID string, page, pageSize int) ([]*Review, int, error)
}

type service struct {
	repo     Repository
	bookings BookingReader
}

func NewService(repo Repository, bookings BookingReader) Service {
	return &service{repo: repo, bookings: bookings}
}

func (s *service) Record(ctx context.Context, actor auth.Actor, req RecordRequest) (*Review, error) {
	if !actor.IsCustomer() {
		return nil, ErrCustomerOnly
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	if _, err := uuid.Parse(req.BookingID); err != nil {
		return nil, booking.ErrNotFound
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actor.ID {
		return nil, ErrNotYourBooking
	}
	if b.Status != booking.StatusCompleted || b.ProfessionalID == nil {
		return nil, ErrNotCompleted
	}

	reviewed, err := s.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	rv := &Review{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		ProfessionalID: *b.ProfessionalID,
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
	}
	// A concurrent duplicate still hits the unique booking_id constraint.
	if err := s.repo.CreateAndAggregate(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) ListForProfessional(ctx context.Context, professionalID string, page, pageSize int) ([]*Review, int, error) {
	return s.repo.List(ctx, Filter{
		ProfessionalID: professionalID,
		Page:           page,
		PageSize:       pageSize,
	})
}

// Package admin computes dashboard counters over the other modules.
package admin

import (
	"context"
	"fmt"

	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
)

const recentBookingsLimit = 10

type UserCounter interface {
	CountByRole(ctx context.Context) (map[string]int, error)
}

type BookingReader interface {
	CountByStatus(ctx context.Context) (map[booking.Status]int, error)
	List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, int, error)
}

type ServiceCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type Analytics struct {
	TotalUsers         int
	TotalCustomers     int
	TotalProfessionals int
	TotalBookings      int
	PendingBookings    int
	CompletedBookings  int
	TotalServices      int
	RecentBookings     []*booking.Booking
}

type Service interface {
	Analytics(ctx context.Context) (*Analytics, error)
}

type service struct {
	users    UserCounter
	bookings BookingReader
	services ServiceCounter
}

func NewService(users UserCounter, bookings BookingReader, services ServiceCounter) Service {
	return &service{users: users, bookings: bookings, services: services}
}

func (s *service) Analytics(ctx context.Context) (*Analytics, error) {
	var a Analytics

	roles, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	for _, n := range roles {
		a.TotalUsers += n
	}
	a.TotalCustomers = roles[string(auth.RoleCustomer)]
	a.TotalProfessionals = roles[string(auth.RoleProfessional)]

	statuses, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	for _, n := range statuses {
		a.TotalBookings += n
	}
	a.PendingBookings = statuses[booking.StatusPending]
	a.CompletedBookings = statuses[booking.StatusCompleted]

	if a.TotalServices, err = s.services.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count services: %w", err)
	}

	a.RecentBookings, _, err = s.bookings.List(ctx, booking.Filter{Page: 1, PageSize: recentBookingsLimit})
	if err != nil {
		return nil, fmt.Errorf("list recent bookings: %w", err)
	}
	return &a, nil
}

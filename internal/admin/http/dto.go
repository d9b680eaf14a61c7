package http

import (
	"github.com/nekogravitycat/home-services-backend/internal/admin"
	bookinghttp "github.com/nekogravitycat/home-services-backend/internal/booking/http"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/response"
)

type AnalyticsResponse struct {
	TotalUsers         int                           `json:"total_users"`
	TotalCustomers     int                           `json:"total_customers"`
	TotalProfessionals int                           `json:"total_professionals"`
	TotalBookings      int                           `json:"total_bookings"`
	CompletedBookings  int                           `json:"completed_bookings"`
	PendingBookings    int                           `json:"pending_bookings"`
	TotalServices      int                           `json:"total_services"`
	RecentBookings     []bookinghttp.BookingResponse `json:"recent_bookings"`
}

func NewAnalyticsResponse(a *admin.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		TotalUsers:         a.TotalUsers,
		TotalCustomers:     a.TotalCustomers,
		TotalProfessionals: a.TotalProfessionals,
		TotalBookings:      a.TotalBookings,
		CompletedBookings:  a.CompletedBookings,
		PendingBookings:    a.PendingBookings,
		TotalServices:      a.TotalServices,
		RecentBookings:     response.Map(a.RecentBookings, bookinghttp.NewBookingResponse),
	}
}

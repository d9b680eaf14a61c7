package http

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/booking"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,booking_status"`
}

type ListAvailableRequest struct {
	request.ListParams
}

type CreateBookingRequest struct {
	ServiceCategoryID string `json:"service_category_id" binding:"required,uuid"`
	Address           string `json:"address" binding:"required,max=500"`
	ScheduledDate     string `json:"scheduled_date" binding:"required,max=32"`
	ScheduledTime     string `json:"scheduled_time" binding:"required,max=32"`
}

// UpdateStatusRequest is read from the JSON body or the status query parameter.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required,booking_status"`
}

// PartyTag is a brief representation of a booking party.
type PartyTag struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

type ServiceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID            string     `json:"id"`
	Customer      PartyTag   `json:"customer"`
	Professional  *PartyTag  `json:"professional"`
	Service       ServiceTag `json:"service"`
	Address       string     `json:"address"`
	ScheduledDate string     `json:"scheduled_date"`
	ScheduledTime string     `json:"scheduled_time"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		Customer:      PartyTag{ID: b.CustomerID, Name: b.CustomerName, Phone: b.CustomerPhone},
		Service:       ServiceTag{ID: b.ServiceCategoryID, Name: b.ServiceName},
		Address:       b.Address,
		ScheduledDate: b.ScheduledDate,
		ScheduledTime: b.ScheduledTime,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.ProfessionalID != nil {
		p := PartyTag{ID: *b.ProfessionalID}
		if b.ProfessionalName != nil {
			p.Name = *b.ProfessionalName
		}
		resp.Professional = &p
	}
	return resp
}

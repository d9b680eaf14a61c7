package booking

import (
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("booking not found")
	ErrServiceNotFound   = apperror.NotFound("service not found")
	ErrForbidden         = apperror.Forbidden("not authorized for this booking")
	ErrCustomerOnly      = apperror.Forbidden("only customers can create bookings")
	ErrProfessionalOnly  = apperror.Forbidden("professional access required")
	ErrNotEligible       = apperror.Forbidden("booking is outside your verified service categories")
	ErrInvalidTransition = apperror.InvalidTransition("booking is not in a state that allows this change")
	ErrInvalidStatus     = apperror.InvalidArgument("invalid booking status")
	ErrAddressRequired   = apperror.InvalidArgument("address is required")
	ErrScheduleRequired  = apperror.InvalidArgument("scheduled date and time are required")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every booking status in lifecycle order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled}

// ParseStatus validates s against the fixed status set.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Booking is a customer's request for a service visit.
// Customer and service fields are snapshots taken at creation.
// Professional fields are set for accepted, in_progress and completed bookings and empty while pending.
type Booking struct {
	ID                string
	CustomerID        string
	CustomerName      string
	CustomerPhone     *string
	ProfessionalID    *string
	ProfessionalName  *string
	ServiceCategoryID string
	ServiceName       string
	Address           string
	ScheduledDate     string
	ScheduledTime     string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AssignedTo reports whether professionalID is the booking's professional.
func (b *Booking) AssignedTo(professionalID string) bool {
	return b.ProfessionalID != nil && *b.ProfessionalID == professionalID
}

func (b *Booking) customerPhone() string {
	if b.CustomerPhone == nil {
		return ""
	}
	return *b.CustomerPhone
}

// Filter defines parameters for listing bookings.
// A non-nil empty CategoryIDs matches nothing.
type Filter struct {
	CustomerID     string
	ProfessionalID string
	Status         Status
	CategoryIDs    []string
	Page           int
	PageSize       int
}

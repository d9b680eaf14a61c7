package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	"github.com/nekogravitycat/home-services-backend/internal/notification"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
	"github.com/nekogravitycat/home-services-backend/internal/user"
	"github.com/sirupsen/logrus"
)

// ProfileProvider loads a professional's profile for eligibility checks.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*professional.Profile, error)
}

// UserDirectory loads the account used for customer snapshots.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type CreateRequest struct {
	ServiceCategoryID string
	Address           string
	ScheduledDate     string
	ScheduledTime     string
}

type ListRequest struct {
	Status   Status
	Page     int
	PageSize int
}

// Service is the booking lifecycle engine plus the matching view.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Booking, error)
	Accept(ctx context.Context, actor auth.Actor, id string) (*Booking, error)
	Reject(ctx context.Context, actor auth.Actor, id string) (*Booking, error)
	SetStatus(ctx context.Context, actor auth.Actor, id, status string) (*Booking, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*Booking, error)
	ListForActor(ctx context.Context, actor auth.Actor, req ListRequest) ([]*Booking, int, error)
	ListAvailable(ctx context.Context, actor auth.Actor, page, pageSize int) ([]*Booking, int, error)
}

type service struct {
	repo       Repository
	categories catalog.Lookup
	profiles   ProfileProvider
	users      UserDirectory
	notifier   notification.Notifier
	logger     logrus.FieldLogger
}

func NewService(
	repo Repository,
	categories catalog.Lookup,
	profiles ProfileProvider,
	users UserDirectory,
	notifier notification.Notifier,
	logger logrus.FieldLogger,
) Service {
	return &service{
		repo:       repo,
		categories: categories,
		profiles:   profiles,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Booking, error) {
	if !actor.IsCustomer() {
		return nil, ErrCustomerOnly
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	date, clock := strings.TrimSpace(req.ScheduledDate), strings.TrimSpace(req.ScheduledTime)
	if date == "" || clock == "" {
		return nil, ErrScheduleRequired
	}

	category, err := s.categories.Resolve(ctx, req.ServiceCategoryID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("resolve service category: %w", err)
	}

	customer, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	b := &Booking{
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		CustomerPhone:     customer.Phone,
		ServiceCategoryID: category.ID,
		ServiceName:       category.Name,
		Address:           address,
		ScheduledDate:     date,
		ScheduledTime:     clock,
		Status:            StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.notify(ctx, b, fmt.Sprintf("Booking confirmed for %s on %s at %s. Booking ID: %s",
		b.ServiceName, b.ScheduledDate, b.ScheduledTime, b.ID))
	return b, nil
}

func (s *service) Accept(ctx context.Context, actor auth.Actor, id string) (*Booking, error) {
	b, profile, err := s.loadForProfessional(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	accepted, err := s.repo.Accept(ctx, b.ID, actor.ID, profile.Name)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, accepted, fmt.Sprintf("Your booking %s has been accepted by %s!", accepted.ID, profile.Name))
	return accepted, nil
}

// Reject reports a missing booking as ErrInvalidTransition: only an existing
// pending booking can be rejected.
func (s *service) Reject(ctx context.Context, actor auth.Actor, id string) (*Booking, error) {
	b, _, err := s.loadForProfessional(ctx, actor, id)
	if err != nil {
		return nil, notPendingIfMissing(err)
	}

	rejected, err := s.repo.Reject(ctx, b.ID)
	if err != nil {
		return nil, notPendingIfMissing(err)
	}

	s.notify(ctx, rejected, fmt.Sprintf("Your booking %s was cancelled.", rejected.ID))
	return rejected, nil
}

func notPendingIfMissing(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidTransition
	}
	return err
}

// loadForProfessional runs the accept/reject guards: professional role, booking
// exists, verified profile declaring the booking's category.
func (s *service) loadForProfessional(ctx context.Context, actor auth.Actor, id string) (*Booking, *professional.Profile, error) {
	if !actor.IsProfessional() {
		return nil, nil, ErrProfessionalOnly
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.profiles.GetProfile(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, professional.ErrNotFound) {
			return nil, nil, ErrNotEligible
		}
		return nil, nil, fmt.Errorf("load professional profile: %w", err)
	}
	if !Eligible(profile, b) {
		return nil, nil, ErrNotEligible
	}
	return b, profile, nil
}

func (s *service) SetStatus(ctx context.Context, actor auth.Actor, id, status string) (*Booking, error) {
	target, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, b) {
		return nil, ErrForbidden
	}

	change, err := evaluateStatusChange(b, target)
	if err != nil {
		return nil, err
	}
	if change.noop {
		return b, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, target, change.clearProfessional)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, fmt.Sprintf("Booking %s status updated to: %s", updated.ID, updated.Status))
	return updated, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id string) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if canModify(actor, b) {
		return b, nil
	}

	// A pending booking is visible to the professionals it is offered to.
	if actor.IsProfessional() && b.Status == StatusPending {
		profile, err := s.profiles.GetProfile(ctx, actor.ID)
		if err == nil && Eligible(profile, b) {
			return b, nil
		}
		if err != nil && !errors.Is(err, professional.ErrNotFound) {
			return nil, fmt.Errorf("load professional profile: %w", err)
		}
	}
	return nil, ErrForbidden
}

func (s *service) ListForActor(ctx context.Context, actor auth.Actor, req ListRequest) ([]*Booking, int, error) {
	filter := Filter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	switch {
	case actor.IsAdmin():
	case actor.IsCustomer():
		filter.CustomerID = actor.ID
	case actor.IsProfessional():
		filter.ProfessionalID = actor.ID
	default:
		return nil, 0, ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

// load fetches a booking; malformed ids are reported as not found.
func (s *service) load(ctx context.Context, id string) (*Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// canModify: the customer of record, the assigned professional, or an admin.
func canModify(actor auth.Actor, b *Booking) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsCustomer():
		return b.CustomerID == actor.ID
	case actor.IsProfessional():
		return b.AssignedTo(actor.ID)
	}
	return false
}

// notify delivers best effort; failures are logged and never reach the caller.
func (s *service) notify(ctx context.Context, b *Booking, message string) {
	phone := b.customerPhone()
	if phone == "" {
		return
	}
	if err := s.notifier.Notify(ctx, phone, message); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Warn("booking notification failed")
	}
}

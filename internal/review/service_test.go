package review

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
	"github.com/nekogravitycat/home-services-backend/internal/booking/bookingtest"
	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	"github.com/nekogravitycat/home-services-backend/internal/notification"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
	"github.com/nekogravitycat/home-services-backend/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileStore backs both the booking service's profile lookups and the
// rating updates performed by memoryRepo.
type profileStore struct {
	mu       sync.Mutex
	profiles map[string]*professional.Profile
}

func (s *profileStore) GetProfile(_ context.Context, userID string) (*professional.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, professional.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memoryRepo struct {
	mu       sync.Mutex
	reviews  []*Review
	profiles *profileStore
}

func (r *memoryRepo) CreateAndAggregate(_ context.Context, rv *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ratings []int
	for _, existing := range r.reviews {
		if existing.BookingID == rv.BookingID {
			return ErrAlreadyReviewed
		}
		if existing.ProfessionalID == rv.ProfessionalID {
			ratings = append(ratings, existing.Rating)
		}
	}

	r.profiles.mu.Lock()
	defer r.profiles.mu.Unlock()
	p, ok := r.profiles.profiles[rv.ProfessionalID]
	if !ok {
		return ErrProfessionalAbsent
	}

	rv.ID = uuid.NewString()
	r.reviews = append(r.reviews, rv)
	p.Rating, p.TotalReviews = Aggregate(append(ratings, rv.Rating))
	return nil
}

func (r *memoryRepo) ExistsForBooking(_ context.Context, bookingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) List(_ context.Context, filter Filter) ([]*Review, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProfessionalID == filter.ProfessionalID {
			out = append(out, r.reviews[i])
		}
	}
	return out, len(out), nil
}

type categoryLookup map[string]*catalog.Category

func (l categoryLookup) Resolve(_ context.Context, id string) (*catalog.Category, error) {
	c, ok := l[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return c, nil
}

type userDirectory map[string]*user.User

func (d userDirectory) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := d[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fixture struct {
	bookings booking.Service
	reviews  Service
	profiles *profileStore

	category string
	customer auth.Actor
	other    auth.Actor
	pro      auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		category: uuid.NewString(),
		customer: auth.Actor{ID: uuid.NewString(), Role: auth.RoleCustomer},
		other:    auth.Actor{ID: uuid.NewString(), Role: auth.RoleCustomer},
		pro:      auth.Actor{ID: uuid.NewString(), Role: auth.RoleProfessional},
	}
	f.profiles = &profileStore{profiles: map[string]*professional.Profile{
		f.pro.ID: {UserID: f.pro.ID, Name: "Bob", Verified: true, ServiceCategories: []string{f.category}},
	}}
	users := userDirectory{
		f.customer.ID: {ID: f.customer.ID, Name: "Alice", Role: auth.RoleCustomer},
		f.other.ID:    {ID: f.other.ID, Name: "Eve", Role: auth.RoleCustomer},
	}
	repo := bookingtest.NewMemoryRepository()
	f.bookings = booking.NewService(
		repo,
		categoryLookup{f.category: {ID: f.category, Name: "Plumbing", Active: true}},
		f.profiles,
		users,
		notification.NewLogNotifier(logging.Discard()),
		logging.Discard(),
	)
	f.reviews = NewService(&memoryRepo{profiles: f.profiles}, repo)
	return f
}

func (f *fixture) booking(t *testing.T, through ...booking.Status) *booking.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, f.customer, booking.CreateRequest{
		ServiceCategoryID: f.category,
		Address:           "1 Main St",
		ScheduledDate:     "2024-06-01",
		ScheduledTime:     "09:00",
	})
	require.NoError(t, err)
	if len(through) == 0 {
		return b
	}
	b, err = f.bookings.Accept(ctx, f.pro, b.ID)
	require.NoError(t, err)
	for _, s := range through {
		b, err = f.bookings.SetStatus(ctx, f.pro, b.ID, string(s))
		require.NoError(t, err)
	}
	return b
}

func TestRecordEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b := f.booking(t, booking.StatusInProgress, booking.StatusCompleted)
	require.Equal(t, booking.StatusCompleted, b.Status)

	rv, err := f.reviews.Record(ctx, f.customer, RecordRequest{BookingID: b.ID, Rating: 5, Comment: "  great work "})
	require.NoError(t, err)
	assert.Equal(t, "Alice", rv.CustomerName)
	assert.Equal(t, f.pro.ID, rv.ProfessionalID)
	assert.Equal(t, "great work", rv.Comment)

	p, err := f.profiles.GetProfile(ctx, f.pro.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, p.Rating, 1e-9)
	assert.Equal(t, 1, p.TotalReviews)

	second := f.booking(t, booking.StatusInProgress, booking.StatusCompleted)
	_, err = f.reviews.Record(ctx, f.customer, RecordRequest{BookingID: second.ID, Rating: 2})
	require.NoError(t, err)

	p, err = f.profiles.GetProfile(ctx, f.pro.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, p.Rating, 1e-9)
	assert.Equal(t, 2, p.TotalReviews)

	items, total, err := f.reviews.ListForProfessional(ctx, f.pro.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, second.ID, items[0].BookingID)
}

func TestRecordRecomputesFromAllReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, rating := range []int{5, 3, 4} {
		b := f.booking(t, booking.StatusInProgress, booking.StatusCompleted)
		_, err := f.reviews.Record(ctx, f.customer, RecordRequest{BookingID: b.ID, Rating: rating})
		require.NoError(t, err)
	}

	p, err := f.profiles.GetProfile(ctx, f.pro.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, p.Rating, 1e-9)
	assert.Equal(t, 3, p.TotalReviews)
}

func TestRecordRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.booking(t, booking.StatusInProgress, booking.StatusCompleted)

	_, err := f.reviews.Record(ctx, f.customer, RecordRequest{BookingID: b.ID, Rating: 4})
	require.NoError(t, err)

	_, err = f.reviews.Record(ctx, f.customer, RecordRequest{BookingID: b.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	p, _ := f.profiles.GetProfile(ctx, f.pro.ID)
	assert.Equal(t, 1, p.TotalReviews)
	assert.InDelta(t, 4.0, p.Rating, 1e-9)
}

func TestRecordGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	completed := f.booking(t, booking.StatusInProgress, booking.StatusCompleted)
	accepted := f.booking(t)
	accepted, err := f.bookings.Accept(ctx, f.pro, accepted.ID)
	require.NoError(t, err)
	pending := f.booking(t)

	tests := []struct {
		name   string
		actor  auth.Actor
		req    RecordRequest
		want   error
		status int
	}{
		{"professional", f.pro, RecordRequest{BookingID: completed.ID, Rating: 5}, ErrCustomerOnly, 403},
		{"rating too low", f.customer, RecordRequest{BookingID: completed.ID, Rating: 0}, ErrInvalidRating, 400},
		{"rating too high", f.customer, RecordRequest{BookingID: completed.ID, Rating: 6}, ErrInvalidRating, 400},
		{"unknown booking", f.customer, RecordRequest{BookingID: uuid.NewString(), Rating: 5}, booking.ErrNotFound, 404},
		{"malformed id", f.customer, RecordRequest{BookingID: "nope", Rating: 5}, booking.ErrNotFound, 404},
		{"not the customer", f.other, RecordRequest{BookingID: completed.ID, Rating: 5}, ErrNotYourBooking, 403},
		{"pending", f.customer, RecordRequest{BookingID: pending.ID, Rating: 5}, ErrNotCompleted, 409},
		{"accepted", f.customer, RecordRequest{BookingID: accepted.ID, Rating: 5}, ErrNotCompleted, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviews.Record(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, apperror.StatusOf(err))
		})
	}

	p, _ := f.profiles.GetProfile(ctx, f.pro.ID)
	assert.Zero(t, p.TotalReviews)
}

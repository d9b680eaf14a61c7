package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
	"github.com/nekogravitycat/home-services-backend/internal/booking/bookingtest"
	"github.com/nekogravitycat/home-services-backend/internal/catalog"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
	"github.com/nekogravitycat/home-services-backend/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[string]*catalog.Category

func (f fakeCatalog) Resolve(_ context.Context, id string) (*catalog.Category, error) {
	c, ok := f[id]
	if !ok || !c.Active {
		return nil, catalog.ErrNotFound
	}
	return c, nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*professional.Profile
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*professional.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, professional.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, phone, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, phone+": "+message)
	return nil
}

type fixture struct {
	svc      booking.Service
	repo     *bookingtest.MemoryRepository
	notifier *recordingNotifier
	profiles *fakeProfiles

	catA, catB, catC string
	customer         auth.Actor
	otherCustomer    auth.Actor
	pro              auth.Actor
	otherPro         auth.Actor
	unverifiedPro    auth.Actor
	admin            auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:          bookingtest.NewMemoryRepository(),
		notifier:      &recordingNotifier{},
		catA:          uuid.NewString(),
		catB:          uuid.NewString(),
		catC:          uuid.NewString(),
		customer:      auth.Actor{ID: uuid.NewString(), Role: auth.RoleCustomer},
		otherCustomer: auth.Actor{ID: uuid.NewString(), Role: auth.RoleCustomer},
		pro:           auth.Actor{ID: uuid.NewString(), Role: auth.RoleProfessional},
		otherPro:      auth.Actor{ID: uuid.NewString(), Role: auth.RoleProfessional},
		unverifiedPro: auth.Actor{ID: uuid.NewString(), Role: auth.RoleProfessional},
		admin:         auth.Actor{ID: uuid.NewString(), Role: auth.RoleAdmin},
	}

	cats := fakeCatalog{
		f.catA: {ID: f.catA, Name: "Plumbing", Active: true},
		f.catB: {ID: f.catB, Name: "Electrical", Active: true},
		f.catC: {ID: f.catC, Name: "Gardening", Active: true},
	}
	phone := "+15550100"
	users := fakeUsers{
		f.customer.ID:      {ID: f.customer.ID, Name: "Alice", Phone: &phone, Role: auth.RoleCustomer},
		f.otherCustomer.ID: {ID: f.otherCustomer.ID, Name: "Eve", Role: auth.RoleCustomer},
	}
	f.profiles = &fakeProfiles{profiles: map[string]*professional.Profile{
		f.pro.ID:           {UserID: f.pro.ID, Name: "Bob", Verified: true, ServiceCategories: []string{f.catA, f.catB}},
		f.otherPro.ID:      {UserID: f.otherPro.ID, Name: "Carl", Verified: true, ServiceCategories: []string{f.catA}},
		f.unverifiedPro.ID: {UserID: f.unverifiedPro.ID, Name: "Dan", Verified: false, ServiceCategories: []string{f.catA, f.catB}},
	}}

	f.svc = booking.NewService(f.repo, cats, f.profiles, users, f.notifier, logging.Discard())
	return f
}

func (f *fixture) create(t *testing.T, category string) *booking.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), f.customer, booking.CreateRequest{
		ServiceCategoryID: category,
		Address:           "1 Main St",
		ScheduledDate:     "2024-06-01",
		ScheduledTime:     "10:00",
	})
	require.NoError(t, err)
	return b
}

func assertAssignmentInvariant(t *testing.T, b *booking.Booking) {
	t.Helper()
	switch b.Status {
	case booking.StatusPending:
		assert.Nil(t, b.ProfessionalID, "pending booking must have no professional")
		assert.Nil(t, b.ProfessionalName)
	case booking.StatusAccepted, booking.StatusInProgress, booking.StatusCompleted:
		assert.NotNil(t, b.ProfessionalID, "%s booking must have a professional", b.Status)
		assert.NotNil(t, b.ProfessionalName)
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b := f.create(t, f.catA)
	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Equal(t, "Alice", b.CustomerName)
	assert.Equal(t, "Plumbing", b.ServiceName)
	assertAssignmentInvariant(t, b)
	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0], "Booking confirmed for Plumbing")

	_, err := f.svc.Create(ctx, f.pro, booking.CreateRequest{ServiceCategoryID: f.catA, Address: "x", ScheduledDate: "d", ScheduledTime: "t"})
	assert.ErrorIs(t, err, booking.ErrCustomerOnly)

	_, err = f.svc.Create(ctx, f.customer, booking.CreateRequest{ServiceCategoryID: uuid.NewString(), Address: "x", ScheduledDate: "d", ScheduledTime: "t"})
	assert.ErrorIs(t, err, booking.ErrServiceNotFound)

	_, err = f.svc.Create(ctx, f.customer, booking.CreateRequest{ServiceCategoryID: f.catA, Address: " ", ScheduledDate: "d", ScheduledTime: "t"})
	assert.ErrorIs(t, err, booking.ErrAddressRequired)
}

func TestCreateWithoutPhoneSkipsNotification(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.otherCustomer, booking.CreateRequest{
		ServiceCategoryID: f.catA, Address: "2 Side St", ScheduledDate: "d", ScheduledTime: "t",
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("sms gateway down")

	b := f.create(t, f.catA)
	accepted, err := f.svc.Accept(context.Background(), f.pro, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusAccepted, accepted.Status)
}

func TestAcceptAssignsProfessional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.create(t, f.catA)

	accepted, err := f.svc.Accept(ctx, f.pro, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.ProfessionalID)
	assert.Equal(t, f.pro.ID, *accepted.ProfessionalID)
	assert.Equal(t, "Bob", *accepted.ProfessionalName)
	assertAssignmentInvariant(t, accepted)

	// Customer fields are untouched.
	assert.Equal(t, b.CustomerID, accepted.CustomerID)
	assert.Equal(t, b.CustomerName, accepted.CustomerName)

	_, err = f.svc.Accept(ctx, f.otherPro, b.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
}

func TestAcceptGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.create(t, f.catC)

	_, err := f.svc.Accept(ctx, f.customer, b.ID)
	assert.ErrorIs(t, err, booking.ErrProfessionalOnly)

	_, err = f.svc.Accept(ctx, f.pro, uuid.NewString())
	assert.ErrorIs(t, err, booking.ErrNotFound)

	_, err = f.svc.Accept(ctx, f.pro, "booking_123")
	assert.ErrorIs(t, err, booking.ErrNotFound)

	// Category outside the declared set.
	_, err = f.svc.Accept(ctx, f.pro, b.ID)
	assert.ErrorIs(t, err, booking.ErrNotEligible)

	inA := f.create(t, f.catA)
	_, err = f.svc.Accept(ctx, f.unverifiedPro, inA.ID)
	assert.ErrorIs(t, err, booking.ErrNotEligible)

	noProfile := auth.Actor{ID: uuid.NewString(), Role: auth.RoleProfessional}
	_, err = f.svc.Accept(ctx, noProfile, inA.ID)
	assert.ErrorIs(t, err, booking.ErrNotEligible)
}

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for round := 0; round < 20; round++ {
		b := f.create(t, f.catA)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, pro := range []auth.Actor{f.pro, f.otherPro} {
			wg.Add(1)
			go func(i int, pro auth.Actor) {
				defer wg.Done()
				_, errs[i] = f.svc.Accept(ctx, pro, b.ID)
			}(i, pro)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, booking.ErrInvalidTransition)
			}
		}
		assert.Equal(t, 1, successes)

		stored, err := f.repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusAccepted, stored.Status)
		assertAssignmentInvariant(t, stored)
	}
}

func TestRejectCancelsWithoutAssigning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.create(t, f.catA)

	rejected, err := f.svc.Reject(ctx, f.pro, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, rejected.Status)
	assert.Nil(t, rejected.ProfessionalID)
	assert.Nil(t, rejected.ProfessionalName)

	_, err = f.svc.Reject(ctx, f.pro, b.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	_, err = f.svc.Reject(ctx, f.pro, uuid.NewString())
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	_, err = f.svc.Reject(ctx, f.pro, "booking_123")
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	// Eligibility is still checked before the status.
	inC := f.create(t, f.catC)
	_, err = f.svc.Reject(ctx, f.pro, inC.ID)
	assert.ErrorIs(t, err, booking.ErrNotEligible)

	_, err = f.svc.Reject(ctx, f.customer, b.ID)
	assert.ErrorIs(t, err, booking.ErrProfessionalOnly)
}

func TestSetStatusAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.create(t, f.catA)
	_, err := f.svc.Accept(ctx, f.pro, b.ID)
	require.NoError(t, err)

	// A professional not assigned to the booking is refused even for a valid status.
	_, err = f.svc.SetStatus(ctx, f.otherPro, b.ID, "in_progress")
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = f.svc.SetStatus(ctx, f.otherCustomer, b.ID, "cancelled")
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = f.svc.SetStatus(ctx, f.pro, b.ID, "done")
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)

	_, err = f.svc.SetStatus(ctx, f.pro, uuid.NewString(), "completed")
	assert.ErrorIs(t, err, booking.ErrNotFound)

	updated, err := f.svc.SetStatus(ctx, f.admin, b.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusInProgress, updated.Status)
}

func TestSetStatusTransitionTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("pending only cancels", func(t *testing.T) {
		b := f.create(t, f.catA)
		for _, target := range []string{"accepted", "in_progress", "completed"} {
			_, err := f.svc.SetStatus(ctx, f.customer, b.ID, target)
			assert.ErrorIs(t, err, booking.ErrInvalidTransition, target)
		}
		same, err := f.svc.SetStatus(ctx, f.customer, b.ID, "pending")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, same.Status)

		cancelled, err := f.svc.SetStatus(ctx, f.customer, b.ID, "cancelled")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	})

	t.Run("reopen clears professional", func(t *testing.T) {
		b := f.create(t, f.catA)
		_, err := f.svc.Accept(ctx, f.pro, b.ID)
		require.NoError(t, err)

		reopened, err := f.svc.SetStatus(ctx, f.pro, b.ID, "pending")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, reopened.Status)
		assertAssignmentInvariant(t, reopened)

		// Back on the market for others.
		again, err := f.svc.Accept(ctx, f.otherPro, b.ID)
		require.NoError(t, err)
		assert.Equal(t, f.otherPro.ID, *again.ProfessionalID)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		b := f.create(t, f.catA)
		_, err := f.svc.Accept(ctx, f.pro, b.ID)
		require.NoError(t, err)
		_, err = f.svc.SetStatus(ctx, f.pro, b.ID, "completed")
		require.NoError(t, err)

		for _, s := range booking.Statuses {
			_, err := f.svc.SetStatus(ctx, f.pro, b.ID, string(s))
			assert.ErrorIs(t, err, booking.ErrInvalidTransition, string(s))
		}
	})
}

func TestFullLifecycleKeepsInvariant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.create(t, f.catB)
	assertAssignmentInvariant(t, b)

	accepted, err := f.svc.Accept(ctx, f.pro, b.ID)
	require.NoError(t, err)
	assertAssignmentInvariant(t, accepted)

	for _, s := range []string{"in_progress", "completed"} {
		updated, err := f.svc.SetStatus(ctx, f.pro, b.ID, s)
		require.NoError(t, err)
		assert.Equal(t, booking.Status(s), updated.Status)
		assertAssignmentInvariant(t, updated)
	}
	assert.Len(t, f.notifier.sent, 4)
}

func TestListAvailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a1 := f.create(t, f.catA)
	f.create(t, f.catC)
	b1 := f.create(t, f.catB)
	taken := f.create(t, f.catA)
	_, err := f.svc.Accept(ctx, f.otherPro, taken.ID)
	require.NoError(t, err)
	a2 := f.create(t, f.catA)

	items, total, err := f.svc.ListAvailable(ctx, f.pro, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	ids := make([]string, len(items))
	for i, b := range items {
		ids[i] = b.ID
		assert.Equal(t, booking.StatusPending, b.Status)
	}
	assert.Equal(t, []string{a2.ID, b1.ID, a1.ID}, ids, "newest first")

	items, total, err = f.svc.ListAvailable(ctx, f.unverifiedPro, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)

	items, _, err = f.svc.ListAvailable(ctx, auth.Actor{ID: uuid.NewString(), Role: auth.RoleProfessional}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, _, err = f.svc.ListAvailable(ctx, f.customer, 1, 20)
	assert.ErrorIs(t, err, booking.ErrProfessionalOnly)
}

func TestListForActorAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mine := f.create(t, f.catA)
	_, err := f.svc.Create(ctx, f.otherCustomer, booking.CreateRequest{ServiceCategoryID: f.catA, Address: "x", ScheduledDate: "d", ScheduledTime: "t"})
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, f.pro, mine.ID)
	require.NoError(t, err)

	items, total, err := f.svc.ListForActor(ctx, f.customer, booking.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, mine.ID, items[0].ID)

	items, _, err = f.svc.ListForActor(ctx, f.pro, booking.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)

	_, total, err = f.svc.ListForActor(ctx, f.admin, booking.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, total, err = f.svc.ListForActor(ctx, f.admin, booking.ListRequest{Status: booking.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = f.svc.Get(ctx, f.customer, mine.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, f.otherCustomer, mine.ID)
	assert.ErrorIs(t, err, booking.ErrForbidden)
	_, err = f.svc.Get(ctx, f.otherPro, mine.ID)
	assert.ErrorIs(t, err, booking.ErrForbidden)

	// Pending offers are visible to eligible professionals.
	offer := f.create(t, f.catA)
	_, err = f.svc.Get(ctx, f.otherPro, offer.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, f.unverifiedPro, offer.ID)
	assert.ErrorIs(t, err, booking.ErrForbidden)
}

func TestEligible(t *testing.T) {
	b := &booking.Booking{ServiceCategoryID: "a"}
	assert.True(t, booking.Eligible(&professional.Profile{Verified: true, ServiceCategories: []string{"a", "b"}}, b))
	assert.False(t, booking.Eligible(&professional.Profile{Verified: false, ServiceCategories: []string{"a"}}, b))
	assert.False(t, booking.Eligible(&professional.Profile{Verified: true, ServiceCategories: []string{"b"}}, b))
	assert.False(t, booking.Eligible(nil, b))
}

func TestParseStatus(t *testing.T) {
	for _, s := range booking.Statuses {
		got, err := booking.ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := booking.ParseStatus("Completed")
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	_, err = booking.ParseStatus("")
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)
}

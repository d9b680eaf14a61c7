// Package bookingtest provides an in-memory booking store for tests.
package bookingtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/home-services-backend/internal/booking"
)

// MemoryRepository is an in-process booking.Repository with the same conditional-update
// semantics as the postgres store.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings map[string]*booking.Booking
	seq      int
	clock    time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[string]*booking.Booking),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *MemoryRepository) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = uuid.NewString()
	b.Status = booking.StatusPending
	b.ProfessionalID = nil
	b.ProfessionalName = nil
	// Strictly increasing timestamps keep newest-first ordering deterministic.
	b.CreatedAt = r.clock.Add(time.Duration(r.seq) * time.Second)
	b.UpdatedAt = b.CreatedAt
	r.bookings[b.ID] = clone(b)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return clone(b), nil
}

func (r *MemoryRepository) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var categories map[string]struct{}
	if filter.CategoryIDs != nil {
		categories = make(map[string]struct{}, len(filter.CategoryIDs))
		for _, id := range filter.CategoryIDs {
			categories[id] = struct{}{}
		}
	}

	var matched []*booking.Booking
	for _, b := range r.bookings {
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ProfessionalID != "" && !b.AssignedTo(filter.ProfessionalID) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if categories != nil {
			if _, ok := categories[b.ServiceCategoryID]; !ok {
				continue
			}
		}
		matched = append(matched, clone(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return nil, total, nil
	}
	end := min(start+size, total)
	return matched[start:end], total, nil
}

func (r *MemoryRepository) Accept(_ context.Context, id, professionalID, professionalName string) (*booking.Booking, error) {
	return r.conditional(id, booking.StatusPending, func(b *booking.Booking) {
		b.Status = booking.StatusAccepted
		b.ProfessionalID = &professionalID
		b.ProfessionalName = &professionalName
	})
}

func (r *MemoryRepository) Reject(ctx context.Context, id string) (*booking.Booking, error) {
	return r.UpdateStatus(ctx, id, booking.StatusPending, booking.StatusCancelled, false)
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, from, to booking.Status, clearProfessional bool) (*booking.Booking, error) {
	return r.conditional(id, from, func(b *booking.Booking) {
		b.Status = to
		if clearProfessional {
			b.ProfessionalID = nil
			b.ProfessionalName = nil
		}
	})
}

func (r *MemoryRepository) conditional(id string, from booking.Status, apply func(*booking.Booking)) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	if b.Status != from {
		return nil, booking.ErrInvalidTransition
	}
	apply(b)
	b.UpdatedAt = b.UpdatedAt.Add(time.Millisecond)
	return clone(b), nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context) (map[booking.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[booking.Status]int, len(booking.Statuses))
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (r *MemoryRepository) CountCompletedForProfessional(_ context.Context, professionalID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.bookings {
		if b.Status == booking.StatusCompleted && b.AssignedTo(professionalID) {
			n++
		}
	}
	return n, nil
}

func clone(b *booking.Booking) *booking.Booking {
	cp := *b
	if b.ProfessionalID != nil {
		id := *b.ProfessionalID
		cp.ProfessionalID = &id
	}
	if b.ProfessionalName != nil {
		name := *b.ProfessionalName
		cp.ProfessionalName = &name
	}
	if b.CustomerPhone != nil {
		phone := *b.CustomerPhone
		cp.CustomerPhone = &phone
	}
	return &cp
}

var _ booking.Repository = (*MemoryRepository)(nil)

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/professional"
)

// Eligible reports whether profile may act on the pending offer b:
// the professional is verified and declares b's service category.
func Eligible(profile *professional.Profile, b *Booking) bool {
	return profile != nil && profile.Verified && profile.Serves(b.ServiceCategoryID)
}

// ListAvailable returns the pending bookings in the caller's declared categories,
// newest first. Unverified or profile-less professionals get an empty list.
func (s *service) ListAvailable(ctx context.Context, actor auth.Actor, page, pageSize int) ([]*Booking, int, error) {
	if !actor.IsProfessional() {
		return nil, 0, ErrProfessionalOnly
	}

	profile, err := s.profiles.GetProfile(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, professional.ErrNotFound) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("load professional profile: %w", err)
	}
	if !profile.Verified || len(profile.ServiceCategories) == 0 {
		return nil, 0, nil
	}

	return s.repo.List(ctx, Filter{
		Status:      StatusPending,
		CategoryIDs: profile.ServiceCategories,
		Page:        page,
		PageSize:    pageSize,
	})
}

package professional

import (
	"context"
	"errors"
	"fmt"

	"github.com/nekogravitycat/home-services-backend/internal/catalog"
)

// CompletedJobCounter counts the completed bookings assigned to a professional.
type CompletedJobCounter interface {
	CountCompletedForProfessional(ctx context.Context, professionalID string) (int, error)
}

// UpdateRequest fields left nil are unchanged.
type UpdateRequest struct {
	ServiceCategories *[]string
	Availability      map[string]any
}

type Service interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateRequest) (*Profile, error)
	Verify(ctx context.Context, userID string, verified bool) (*Profile, error)
	List(ctx context.Context, filter Filter) ([]*Profile, int, error)
	Earnings(ctx context.Context, userID string) (*Earnings, error)
}

type service struct {
	repo       Repository
	categories catalog.Lookup
	jobs       CompletedJobCounter
}

func NewService(repo Repository, categories catalog.Lookup, jobs CompletedJobCounter) Service {
	return &service{
		repo:       repo,
		categories: categories,
		jobs:       jobs,
	}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateRequest) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ServiceCategories != nil {
		declared, err := s.checkCategories(ctx, *req.ServiceCategories)
		if err != nil {
			return nil, err
		}
		p.ServiceCategories = declared
	}
	if req.Availability != nil {
		p.Availability = req.Availability
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkCategories drops duplicates and rejects ids that do not resolve to an active category.
func (s *service) checkCategories(ctx context.Context, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.categories.Resolve(ctx, id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, fmt.Errorf("resolve category %s: %w", id, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *service) Verify(ctx context.Context, userID string, verified bool) (*Profile, error) {
	if err := s.repo.SetVerified(ctx, userID, verified); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Profile, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Earnings(ctx context.Context, userID string) (*Earnings, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.jobs.CountCompletedForProfessional(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Earnings{
		CompletedJobs: completed,
		Rating:        p.Rating,
		TotalReviews:  p.TotalReviews,
	}, nil
}
